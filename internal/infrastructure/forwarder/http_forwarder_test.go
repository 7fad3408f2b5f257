// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package forwarder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain"
)

func TestHTTPForwarderForward(t *testing.T) {
	ctx := context.Background()
	rawBody := []byte(`{"event":"meeting.started","payload":{"object":{"uuid":"abc"}}}`)

	t.Run("posts raw body to sink", func(t *testing.T) {
		var received []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			received = body
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		f := NewHTTPForwarder(srv.URL, "")
		require.NoError(t, f.Forward(ctx, "meeting.started", rawBody))
		assert.Equal(t, rawBody, received)
	})

	t.Run("injects auth token when configured", func(t *testing.T) {
		var received map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		f := NewHTTPForwarder(srv.URL, "sekrit")
		require.NoError(t, f.Forward(ctx, "meeting.started", rawBody))
		assert.Equal(t, "sekrit", received["auth_token"])
		assert.Equal(t, "meeting.started", received["event"])
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer srv.Close()

		f := NewHTTPForwarder(srv.URL, "")
		err := f.Forward(ctx, "meeting.started", rawBody)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("unconfigured sink is unavailable", func(t *testing.T) {
		f := NewHTTPForwarder("", "")
		assert.False(t, f.IsReady())
		err := f.Forward(ctx, "meeting.started", rawBody)
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
	})
}

func TestNoOpForwarder(t *testing.T) {
	f := NewNoOpForwarder()
	assert.False(t, f.IsReady())
	require.NoError(t, f.Forward(context.Background(), "meeting.started", []byte(`{}`)))
}
