package service

import "restaurant-ordering/internal/common/logger"

type Service struct {
	NotificatorService *NotificatorService
}

func New(src Source, queue string, lg *logger.Logger) *Service {
	return &Service{NotificatorService: NewNotificatorService(src, queue, lg)}
}
