package admin

import (
	"context"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/database"
	adminsvc "restaurant-ordering/internal/microservices/admin"
)

// Create provisions one admin account and exits.
func Create(ctx context.Context, cfg *config.Config, lg *logger.Logger, username, password string) error {
	if password == "" {
		return errors.New("admin password is required (--admin-password or ADMIN_PASSWORD)")
	}
	pool, err := database.Connect(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool, lg); err != nil {
		return err
	}

	svc, err := adminsvc.NewService(database.NewGateway(pool, cfg.Database.QueryTimeout), cfg.Auth, lg)
	if err != nil {
		return err
	}
	_, err = svc.AdminService.CreateAdmin(ctx, username, password)
	return err
}
