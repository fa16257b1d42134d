package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eliseohh/sagebot/internal/log"
)

// Server exposes /metrics and /healthz for the running bot.
type Server struct {
	srv *http.Server
}

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func NewServer(addr string) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ll := log.GetLogger(log.MetricsModule)
	errCh := make(chan error, 1)
	go func() {
		ll.Infof("ops server listening on %s", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "ops server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
