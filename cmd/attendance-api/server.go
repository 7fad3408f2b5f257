// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/pkg/constants"
)

// newMux builds the HTTP routes for the attendance service.
func newMux(webhookHandler *handlers.ZoomWebhookHandler, ready func() error) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST "+constants.ZoomWebhookPath, webhookHandler.HandleWebhook)

	// Plain liveness string on the root path for load balancer checks.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintln(w, "Zoom attendance service")
	})

	mux.HandleFunc("GET "+constants.LivezPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness reflects the store connection; stateless deployments are
	// always ready.
	mux.HandleFunc("GET "+constants.ReadyzPath, func(w http.ResponseWriter, r *http.Request) {
		if err := ready(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	})

	return mux
}

// setupHTTPServer configures and starts the HTTP listener.
func setupHTTPServer(flags flags, webhookHandler *handlers.ZoomWebhookHandler, ready func() error) *http.Server {
	addr := ":" + flags.Port
	if flags.Bind != "*" {
		addr = flags.Bind + addr
	}

	var handler http.Handler = newMux(webhookHandler, ready)
	handler = middleware.WebhookBodyCaptureMiddleware()(handler)
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		slog.With("addr", addr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("HTTP server error")
		}
	}()

	return httpServer
}
