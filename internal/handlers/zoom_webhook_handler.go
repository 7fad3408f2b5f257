// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package handlers contains the HTTP handlers for the attendance service.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/infrastructure/webhook"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/pkg/constants"
)

// ZoomWebhookHandler authenticates inbound Zoom webhook deliveries, answers
// the URL-validation handshake, and fans authenticated events out to the
// session reconciler, the presence tracker, and the forward sink. The fan-out
// runs after the HTTP response has been written so slow downstreams never
// trigger Zoom's retry behavior.
type ZoomWebhookHandler struct {
	validator  *webhook.ZoomWebhookValidator
	reconciler *service.SessionReconciler
	tracker    *service.PresenceTracker
	forwarder  domain.EventForwarder
	pool       *concurrent.WorkerPool

	// background tracks in-flight fan-out goroutines for graceful shutdown.
	background sync.WaitGroup
}

// NewZoomWebhookHandler creates a new Zoom webhook handler.
func NewZoomWebhookHandler(
	validator *webhook.ZoomWebhookValidator,
	reconciler *service.SessionReconciler,
	tracker *service.PresenceTracker,
	forwarder domain.EventForwarder,
) *ZoomWebhookHandler {
	return &ZoomWebhookHandler{
		validator:  validator,
		reconciler: reconciler,
		tracker:    tracker,
		forwarder:  forwarder,
		pool:       concurrent.NewWorkerPool(3),
	}
}

// HandleWebhook is the HTTP handler for POST requests on the webhook path.
func (h *ZoomWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// The body capture middleware buffers the raw bytes once; direct reads
	// are the fallback for handlers mounted without the middleware chain.
	body, ok := middleware.GetRawBodyFromContext(ctx)
	if !ok {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, constants.MaxWebhookBodyBytes))
		if err != nil {
			slog.ErrorContext(ctx, "error reading webhook body", logging.ErrKey, err)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
	}

	// The signature is computed over the exact bytes received, so the body is
	// parsed from the same buffer, never re-read.
	event, parseErr := models.ParseZoomWebhookEvent(body)

	// The URL-validation handshake is authenticated by possession of the
	// shared secret alone: only a holder of the secret can produce the
	// encrypted token Zoom checks on its side. It never reaches the stores or
	// the sink.
	if parseErr == nil && event.Event == models.EventEndpointURLValidation {
		h.handleURLValidation(ctx, w, event)
		return
	}

	signature := r.Header.Get(constants.ZoomSignatureHeader)
	timestamp := r.Header.Get(constants.ZoomTimestampHeader)
	if err := h.validator.ValidateSignature(body, signature, timestamp); err != nil {
		slog.WarnContext(ctx, "rejected webhook delivery", logging.ErrKey, err,
			"event_type", safeEventType(event))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if parseErr != nil {
		slog.WarnContext(ctx, "malformed webhook body", logging.ErrKey, parseErr)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// Acknowledge before doing any work: Zoom retries slow deliveries, and
	// retries cost more than a lost background write.
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))

	h.dispatch(ctx, event, body)
}

// dispatch fans the authenticated event out to the reconciler, the presence
// tracker, and the forwarder on a detached context. Failures are independent
// per operation and only ever reach the logs.
func (h *ZoomWebhookHandler) dispatch(ctx context.Context, event *models.ZoomWebhookEvent, body []byte) {
	// The request context dies when the response is written; the fan-out
	// keeps the request-scoped log attributes but not the cancellation.
	bgCtx := context.WithoutCancel(ctx)

	h.background.Add(1)
	go func() {
		defer h.background.Done()

		errs := h.pool.RunAll(bgCtx,
			func() error { return h.reconciler.Reconcile(bgCtx, event) },
			func() error { return h.tracker.ApplyPresence(bgCtx, event) },
			func() error { return h.forwarder.Forward(bgCtx, event.Event, body) },
		)
		for _, err := range errs {
			if err != nil {
				slog.ErrorContext(bgCtx, "background webhook processing failed",
					logging.ErrKey, err, "event_type", event.Event)
			}
		}
	}()
}

func (h *ZoomWebhookHandler) handleURLValidation(ctx context.Context, w http.ResponseWriter, event *models.ZoomWebhookEvent) {
	payload, err := event.ToURLValidationPayload()
	if err != nil || payload.PlainToken == "" {
		slog.WarnContext(ctx, "malformed URL validation payload", logging.ErrKey, err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	response := h.validator.HandshakeResponse(payload.PlainToken)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.ErrorContext(ctx, "error writing URL validation response", logging.ErrKey, err)
	}
	slog.InfoContext(ctx, "answered Zoom URL validation handshake")
}

// Drain blocks until all in-flight background fan-outs have finished. Called
// on graceful shutdown and by tests.
func (h *ZoomWebhookHandler) Drain() {
	h.background.Wait()
}

func safeEventType(event *models.ZoomWebhookEvent) string {
	if event == nil {
		return ""
	}
	return event.Event
}
