package notify

import (
	"context"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/microservices/notificator"
)

// Run consumes order events for the kitchen until ctx is done.
func Run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	client, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer client.Close()
	lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host, "vhost": cfg.RabbitMQ.VHost})
	return notificator.Start(ctx, client, cfg.RabbitMQ, lg)
}
