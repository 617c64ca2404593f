package service

import (
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/microservices/order/repository"
)

type Service struct {
	OrderService OrderServiceInterface
}

func New(repo repository.Repository, menu MenuResolver, pub events.Publisher, lg *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		OrderService: NewOrderService(repo.OrderRepo, menu, pub, lg, m),
	}
}
