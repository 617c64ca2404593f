package handlers

import (
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/microservices/menu/service"
)

type Handler struct {
	MenuHandler *MenuHandler
}

func New(s *service.Service, maxImageBytes int64, lg *logger.Logger) *Handler {
	return &Handler{
		MenuHandler: NewMenuHandler(s.MenuService, maxImageBytes, lg),
	}
}
