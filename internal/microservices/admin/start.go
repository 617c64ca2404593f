package admin

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/microservices/admin/handlers"
	"restaurant-ordering/internal/microservices/admin/repository"
	"restaurant-ordering/internal/microservices/admin/service"
)

// Mount registers the login route and returns the middleware that guards
// every other admin route.
func Mount(mux *http.ServeMux, gw *database.Gateway, cfg config.AuthConfig, lg *logger.Logger) (httpx.Middleware, error) {
	svc, err := NewService(gw, cfg, lg)
	if err != nil {
		return nil, err
	}
	handler := handlers.New(svc, lg)
	handlers.Register(mux, handler)
	return handler.AdminHandler.RequireAdmin, nil
}

// NewService builds the admin service on its own, for the create-admin command.
func NewService(gw *database.Gateway, cfg config.AuthConfig, lg *logger.Logger) (*service.Service, error) {
	repo := repository.New(gw)
	return service.New(*repo, cfg, lg.With(map[string]any{"component": "admin"}))
}
