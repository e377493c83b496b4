package observability

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck is one named dependency probe, e.g. the database ping.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler serves /metrics from m and /healthz from checks.
func Handler(m *Metrics, log *slog.Logger, checks ...HealthCheck) http.Handler {
	mux := http.NewServeMux()
	if m != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		st := healthStatus{Status: "ok"}
		code := http.StatusOK
		for _, c := range checks {
			if st.Checks == nil {
				st.Checks = make(map[string]string, len(checks))
			}
			if err := c.Check(ctx); err != nil {
				st.Status = "degraded"
				st.Checks[c.Name] = err.Error()
				code = http.StatusServiceUnavailable
				if log != nil {
					log.Warn("health check failed", "check", c.Name, "err", err)
				}
				continue
			}
			st.Checks[c.Name] = "ok"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(st)
	})
	return mux
}

// Serve runs the handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if log != nil {
		log.Info("http listening", "addr", addr)
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
