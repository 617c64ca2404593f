package service

import (
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/microservices/admin/repository"
)

type Service struct {
	AdminService AdminServiceInterface
}

func New(repo repository.Repository, cfg config.AuthConfig, lg *logger.Logger) (*Service, error) {
	svc, err := NewAdminService(repo.AdminRepo, cfg, lg)
	if err != nil {
		return nil, err
	}
	return &Service{AdminService: svc}, nil
}
