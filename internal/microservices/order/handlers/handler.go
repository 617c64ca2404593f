package handlers

import (
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/microservices/order/service"
)

type Handler struct {
	OrderHandler *OrderHandler
}

func New(s *service.Service, lg *logger.Logger) *Handler {
	return &Handler{
		OrderHandler: NewOrderHandler(s.OrderService, lg),
	}
}
