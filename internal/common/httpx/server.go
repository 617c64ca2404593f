package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/logger"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	*http.Server
	lg *logger.Logger
}

func New(addr string, h http.Handler, lg *logger.Logger) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		lg: lg,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	s.lg.Info("http_server_listening", map[string]any{"addr": s.Addr})

	select {
	case <-ctx.Done():
		s.lg.Info("graceful_shutdown", map[string]any{"addr": s.Addr})
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(sctx); err != nil {
			return errors.Wrap(err, "http shutdown")
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "http listen")
	}
}
