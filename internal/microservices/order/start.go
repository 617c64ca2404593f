package order

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/microservices/order/handlers"
	"restaurant-ordering/internal/microservices/order/repository"
	"restaurant-ordering/internal/microservices/order/service"
)

// Mount wires the order workflow onto mux. Items are resolved through menu
// and committed changes are announced on pub.
func Mount(mux *http.ServeMux, gw *database.Gateway, menu service.MenuResolver, pub events.Publisher,
	requireAdmin httpx.Middleware, lg *logger.Logger, m *metrics.Metrics) {
	// Initialize repository
	repo := repository.New(gw)
	// Initialize service
	svc := service.New(*repo, menu, pub, lg.With(map[string]any{"component": "order"}), m)
	handler := handlers.New(svc, lg)

	handlers.Register(mux, handler, requireAdmin)
}
