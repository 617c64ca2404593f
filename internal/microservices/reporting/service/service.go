package service

import (
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/microservices/reporting/repository"
)

type Service struct {
	StatsService StatsServiceInterface
}

func New(repo repository.Repository, lg *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		StatsService: NewStatsService(repo.StatsRepo, lg, m),
	}
}
