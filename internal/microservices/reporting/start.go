package reporting

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/microservices/reporting/handlers"
	"restaurant-ordering/internal/microservices/reporting/repository"
	"restaurant-ordering/internal/microservices/reporting/service"
)

func Mount(mux *http.ServeMux, gw *database.Gateway, requireAdmin httpx.Middleware, lg *logger.Logger, m *metrics.Metrics) {
	repo := repository.New(gw)
	svc := service.New(*repo, lg.With(map[string]any{"component": "reporting"}), m)
	handlers.Register(mux, handlers.New(svc), requireAdmin)
}
