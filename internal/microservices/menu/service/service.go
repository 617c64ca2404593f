package service

import (
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/connections/blob"
	"restaurant-ordering/internal/microservices/menu/repository"
)

type Service struct {
	MenuService MenuServiceInterface
}

func New(repo repository.Repository, store blob.Store, maxImageBytes int64, lg *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		MenuService: NewMenuService(repo.MenuRepo, store, maxImageBytes, lg, m),
	}
}
