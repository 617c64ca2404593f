package menu

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/connections/blob"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/microservices/menu/handlers"
	"restaurant-ordering/internal/microservices/menu/repository"
	"restaurant-ordering/internal/microservices/menu/service"
)

// Mount wires the menu catalog onto mux and returns its service so the
// order workflow can resolve items against it.
func Mount(mux *http.ServeMux, gw *database.Gateway, store blob.Store, maxImageBytes int64,
	requireAdmin httpx.Middleware, lg *logger.Logger, m *metrics.Metrics) service.MenuServiceInterface {
	// Initialize repository
	repo := repository.New(gw)
	// Initialize service
	svc := service.New(*repo, store, maxImageBytes, lg.With(map[string]any{"component": "menu"}), m)
	handler := handlers.New(svc, maxImageBytes, lg)

	handlers.Register(mux, handler, requireAdmin)
	return svc.MenuService
}
