// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import "context"

// EventForwarder dispatches an authenticated webhook event to the external
// sink. Forwarding is best-effort: errors are reported to the caller for
// logging only and are never retried or surfaced to the event source.
type EventForwarder interface {
	Forward(ctx context.Context, eventType string, rawBody []byte) error
}
