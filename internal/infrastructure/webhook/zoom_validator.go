// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package webhook implements Zoom webhook request authentication: the HMAC
// signature scheme and the endpoint URL-validation handshake.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain/models"
)

// DefaultReplayTolerance is how far in the past a webhook request timestamp
// may lie before the request is rejected as a potential replay.
const DefaultReplayTolerance = 5 * time.Minute

// ZoomWebhookValidator handles validation of Zoom webhook signatures and the
// URL-validation handshake. The signature scheme is
// "v0=" + hex(HMAC-SHA256(secret, "v0:<timestamp>:<rawBody>")) over the exact
// body bytes as received; a re-serialized JSON form would change field order
// and whitespace and break the digest.
type ZoomWebhookValidator struct {
	secretToken     string
	replayTolerance time.Duration
}

// NewZoomWebhookValidator creates a new Zoom webhook validator with the
// default replay tolerance.
func NewZoomWebhookValidator(secretToken string) *ZoomWebhookValidator {
	return &ZoomWebhookValidator{
		secretToken:     secretToken,
		replayTolerance: DefaultReplayTolerance,
	}
}

// WithReplayTolerance sets the accepted request timestamp age. A zero
// tolerance disables the age check.
func (v *ZoomWebhookValidator) WithReplayTolerance(tolerance time.Duration) *ZoomWebhookValidator {
	v.replayTolerance = tolerance
	return v
}

// ValidateSignature validates the Zoom webhook signature against the raw
// request body bytes. A missing signature or timestamp header fails
// immediately without computing any digest.
func (v *ZoomWebhookValidator) ValidateSignature(body []byte, signature, timestamp string) error {
	if v.secretToken == "" {
		return domain.NewUnavailableError("webhook secret token not configured")
	}

	if signature == "" {
		return domain.NewUnauthorizedError("missing webhook signature")
	}

	if timestamp == "" {
		return domain.NewUnauthorizedError("missing webhook timestamp")
	}

	if v.replayTolerance > 0 {
		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return domain.NewUnauthorizedError("invalid timestamp format", err)
		}

		now := time.Now().Unix()
		if now-ts > int64(v.replayTolerance.Seconds()) {
			return domain.NewUnauthorizedError("request timestamp too old")
		}
	}

	expectedSignature := v.Sign(body, timestamp)

	// Compare signatures using constant-time comparison
	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return domain.NewUnauthorizedError("invalid webhook signature")
	}

	return nil
}

// Sign computes the signature Zoom would send for the given raw body and
// request timestamp.
func (v *ZoomWebhookValidator) Sign(body []byte, timestamp string) string {
	message := fmt.Sprintf("v0:%s:%s", timestamp, string(body))

	h := hmac.New(sha256.New, []byte(v.secretToken))
	h.Write([]byte(message))
	return "v0=" + hex.EncodeToString(h.Sum(nil))
}

// HandshakeResponse answers the endpoint.url_validation challenge. The
// encrypted token is the hex HMAC-SHA256 of the plain token under the shared
// secret; Zoom verifies it independently, so possession of the secret is what
// authenticates this exchange rather than a request signature.
func (v *ZoomWebhookValidator) HandshakeResponse(plainToken string) models.ZoomURLValidationResponse {
	h := hmac.New(sha256.New, []byte(v.secretToken))
	h.Write([]byte(plainToken))

	return models.ZoomURLValidationResponse{
		PlainToken:     plainToken,
		EncryptedToken: hex.EncodeToString(h.Sum(nil)),
	}
}
