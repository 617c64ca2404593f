// Package api assembles the HTTP service: storage, blob store, event bus
// and every route group behind one middleware chain.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/blob"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/microservices/admin"
	"restaurant-ordering/internal/microservices/menu"
	"restaurant-ordering/internal/microservices/order"
	"restaurant-ordering/internal/microservices/reporting"
)

// Deps are the collaborators the routes are built on.
type Deps struct {
	Gateway *database.Gateway
	Store   blob.Store
	Events  events.Publisher
	Metrics *metrics.Metrics
}

func Run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	m := metrics.New()

	pool, err := database.Connect(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool, lg); err != nil {
		return err
	}
	gw := database.NewGateway(pool, cfg.Database.QueryTimeout)

	store, err := blob.New(cfg.Blob)
	if err != nil {
		return err
	}
	if err := store.EnsureContainer(ctx); err != nil {
		return errors.Wrap(err, "prepare image storage")
	}

	pub, closeBus := connectEvents(cfg.RabbitMQ, lg, m)
	defer closeBus()

	h, err := Handler(Deps{Gateway: gw, Store: store, Events: pub, Metrics: m}, cfg, lg)
	if err != nil {
		return err
	}
	srv := httpx.New(":"+strconv.Itoa(cfg.HTTP.Port), h, lg)
	return srv.Run(ctx)
}

// Handler builds the routed, wrapped HTTP handler.
func Handler(d Deps, cfg *config.Config, lg *logger.Logger) (http.Handler, error) {
	mux := http.NewServeMux()

	requireAdmin, err := admin.Mount(mux, d.Gateway, cfg.Auth, lg)
	if err != nil {
		return nil, err
	}
	catalog := menu.Mount(mux, d.Gateway, d.Store, cfg.HTTP.MaxUploadBytes, requireAdmin, lg, d.Metrics)
	order.Mount(mux, d.Gateway, catalog, d.Events, requireAdmin, lg, d.Metrics)
	reporting.Mount(mux, d.Gateway, requireAdmin, lg, d.Metrics)

	if local, ok := d.Store.(*blob.LocalStore); ok {
		mux.Handle("GET "+local.Prefix(), local.Handler())
	}
	mux.Handle("GET /metrics", d.Metrics.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := d.Gateway.Ping(r.Context()); err != nil {
			lg.Warn("health_check_failed", map[string]any{"error": err.Error()})
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return httpx.Chain(mux,
		httpx.CORS(cfg.HTTP.AllowedOrigins),
		httpx.AssignRequestID,
		httpx.Timeout(cfg.HTTP.RequestTimeout),
		httpx.Logging(lg, d.Metrics),
		httpx.Recover(lg),
	), nil
}

// connectEvents dials the broker when enabled. Events are best-effort, so a
// broker that cannot be reached downgrades to a no-op publisher.
func connectEvents(cfg config.RabbitMQConfig, lg *logger.Logger, m *metrics.Metrics) (events.Publisher, func()) {
	if !cfg.Enabled {
		return events.Nop{}, func() {}
	}
	client, err := rabbitmq.Dial(cfg)
	if err == nil {
		err = client.DeclareFanout(cfg.Exchange)
		if err != nil {
			client.Close()
		}
	}
	if err != nil {
		lg.Warn("event_bus_unavailable", map[string]any{"error": err.Error()})
		return events.Nop{}, func() {}
	}
	lg.Info("event_bus_connected", map[string]any{"exchange": cfg.Exchange})
	return events.NewAMQPPublisher(client, cfg.Exchange, m), client.Close
}
