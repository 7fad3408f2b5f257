// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants holds shared HTTP constants for the attendance service.
package constants

// Constants for the HTTP request headers
const (
	// RequestIDHeader is the header name for the request ID
	RequestIDHeader string = "X-REQUEST-ID"

	// ZoomSignatureHeader is the header carrying the Zoom webhook signature
	ZoomSignatureHeader string = "x-zm-signature"

	// ZoomTimestampHeader is the header carrying the Zoom webhook request timestamp
	ZoomTimestampHeader string = "x-zm-request-timestamp"
)

// contextRequestID is the type for the request ID context key
type contextRequestID string

// RequestIDContextID is the context ID for the request ID
const RequestIDContextID contextRequestID = "X-REQUEST-ID"

// MaxWebhookBodyBytes caps inbound webhook bodies. Zoom events are small;
// anything beyond this is not a webhook.
const MaxWebhookBodyBytes = 1 << 20

// HTTP paths served by the attendance service
const (
	// ZoomWebhookPath is the path of the Zoom webhook endpoint
	ZoomWebhookPath = "/webhooks/zoom"

	// LivezPath is the liveness check path
	LivezPath = "/livez"

	// ReadyzPath is the readiness check path
	ReadyzPath = "/readyz"
)
