package handlers

import (
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/microservices/admin/service"
)

type Handler struct {
	AdminHandler *AdminHandler
}

func New(s *service.Service, lg *logger.Logger) *Handler {
	return &Handler{
		AdminHandler: NewAdminHandler(s.AdminService, lg),
	}
}
