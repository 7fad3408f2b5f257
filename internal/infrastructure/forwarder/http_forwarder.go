// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package forwarder implements best-effort delivery of authenticated webhook
// events to an external logging sink.
package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain"
)

// defaultTimeout bounds a single delivery attempt. The sink is fire-and-forget
// so a slow downstream only costs one background goroutine, never a retry
// storm.
const defaultTimeout = 10 * time.Second

// HTTPForwarder posts raw event bodies to a configured sink URL. When an auth
// token is configured it is injected into the JSON body as a top-level
// "auth_token" field, which is how the sheets sink authenticates callers.
type HTTPForwarder struct {
	sinkURL   string
	authToken string
	client    *http.Client
}

// NewHTTPForwarder creates a forwarder targeting the given sink URL.
func NewHTTPForwarder(sinkURL, authToken string) *HTTPForwarder {
	return &HTTPForwarder{
		sinkURL:   sinkURL,
		authToken: authToken,
		client:    &http.Client{Timeout: defaultTimeout},
	}
}

// IsReady reports whether a sink URL is configured.
func (f *HTTPForwarder) IsReady() bool {
	return f.sinkURL != ""
}

// Forward delivers one event body to the sink. The caller treats errors as
// log-only; nothing is retried.
func (f *HTTPForwarder) Forward(ctx context.Context, eventType string, rawBody []byte) error {
	if !f.IsReady() {
		return domain.NewUnavailableError("forward sink is not configured")
	}

	body := rawBody
	if f.authToken != "" {
		augmented, err := injectAuthToken(rawBody, f.authToken)
		if err != nil {
			return domain.NewInternalError("failed to augment event body with auth token", err)
		}
		body = augmented
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.sinkURL, bytes.NewReader(body))
	if err != nil {
		return domain.NewInternalError("failed to build forward request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.NewInternalError("failed to deliver event to sink", err)
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewInternalError(fmt.Sprintf("sink responded with status %d", resp.StatusCode))
	}

	slog.DebugContext(ctx, "forwarded event to sink", "event_type", eventType)
	return nil
}

// injectAuthToken adds a top-level auth_token field to a JSON object body.
func injectAuthToken(rawBody []byte, token string) ([]byte, error) {
	var payload map[string]any
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, err
	}
	payload["auth_token"] = token
	return json.Marshal(payload)
}

// NoOpForwarder is used when no sink URL is configured.
type NoOpForwarder struct{}

// NewNoOpForwarder creates a disabled forwarder.
func NewNoOpForwarder() *NoOpForwarder {
	return &NoOpForwarder{}
}

// IsReady always reports false.
func (f *NoOpForwarder) IsReady() bool { return false }

// Forward discards the event.
func (f *NoOpForwarder) Forward(ctx context.Context, eventType string, _ []byte) error {
	slog.DebugContext(ctx, "forward sink not configured, dropping event", "event_type", eventType)
	return nil
}
