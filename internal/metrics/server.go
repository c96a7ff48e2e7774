package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/slide-flow/internal/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHandler serves /metrics and /healthz
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// StartServer serves metrics on port in the background. Shut the returned
// server down to stop it.
func StartServer(ctx context.Context, port int, log logger.Logger) *http.Server {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: NewHandler(),
	}

	go func() {
		log.Info(ctx, "Metrics server starting on port %d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "Metrics server error: %v", err)
		}
	}()

	return srv
}
