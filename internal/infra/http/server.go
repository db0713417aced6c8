package http

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WebhookPath — куда Trakteer шлёт уведомления об оплате.
const WebhookPath = "/webhooks/trakteer"

type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool, webhook http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewMux(exposeMetrics, webhook),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func NewMux(exposeMetrics bool, webhook http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	if webhook != nil {
		mux.Handle(WebhookPath, webhook)
	}
	return mux
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
