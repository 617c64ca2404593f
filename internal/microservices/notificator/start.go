package notificator

import (
	"context"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/microservices/notificator/service"
)

// Start binds the kitchen queue to the order events exchange and consumes
// until ctx is done.
func Start(ctx context.Context, rmqClient *rabbitmq.Client, cfg config.RabbitMQConfig, lg *logger.Logger) error {
	if err := rmqClient.DeclareFanout(cfg.Exchange); err != nil {
		return err
	}
	if err := rmqClient.BindQueue(cfg.Queue, cfg.Exchange); err != nil {
		return err
	}
	svc := service.New(rmqClient, cfg.Queue, lg)
	return svc.NotificatorService.Run(ctx)
}
