// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"fitlife-bot/pkg/logger"
)

// WebhookHandler receives Stripe events. *bot.TelegramBot implements it.
type WebhookHandler interface {
	HandleStripeWebhook(w http.ResponseWriter, r *http.Request)
}

type Server struct {
	server *http.Server
	logger *logger.Logger
}

func NewServer(port string, webhooks WebhookHandler, logger *logger.Logger) *Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      newMux(webhooks),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server: httpServer,
		logger: logger,
	}
}

func newMux(webhooks WebhookHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/webhook/stripe", webhooks.HandleStripeWebhook)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

func (s *Server) Start() error {
	s.logger.Infow("Starting HTTP server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}
