// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the attendance service API that ingests Zoom webhook events,
// reconciles meeting sessions and participant presence, and forwards
// authenticated events to a logging sink.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/infrastructure/webhook"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/service"
)

const shutdownTimeout = 25 * time.Second

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	validator := webhook.NewZoomWebhookValidator(env.ZoomWebhookSecretToken).
		WithReplayTolerance(time.Duration(env.SignatureReplayToleranceSeconds) * time.Second)
	reconciler := service.NewSessionReconciler(repos.Session)
	tracker := service.NewPresenceTracker(repos.Participant)
	eventForwarder := setupForwarder(env)

	// Initialize handlers
	webhookHandler := handlers.NewZoomWebhookHandler(validator, reconciler, tracker, eventForwarder)

	ready := func() error {
		if natsConn != nil && !natsConn.IsConnected() {
			return errors.New("NATS connection is down")
		}
		return nil
	}
	httpServer := setupHTTPServer(flags, webhookHandler, ready)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, webhookHandler, &gracefulCloseWG, cancel)
}

// gracefulShutdown drains in-flight HTTP requests, waits for background
// event processing, and closes the NATS connection.
func gracefulShutdown(
	httpServer *http.Server,
	natsConn *nats.Conn,
	webhookHandler *handlers.ZoomWebhookHandler,
	gracefulCloseWG *sync.WaitGroup,
	cancel context.CancelFunc,
) {
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down HTTP server")
	}

	// Responses are acknowledged before processing, so let the in-flight
	// background fan-outs land their writes before the store goes away.
	webhookHandler.Drain()

	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
		}
		// Wait for the NATS closed handler to fire.
		gracefulCloseWG.Wait()
	}

	cancel()
	slog.Info("shutdown complete")
}
