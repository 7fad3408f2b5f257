// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
)

// Zoom meeting UUIDs are base64 strings that may contain '/', '+' and '='
// padding, none of which are valid in NATS KV keys.
func sessionRowKey(sessionUID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(sessionUID))
}

// Participant rows are keyed by session and participant together so a single
// bucket can hold every session's roster. Participant keys come straight from
// Zoom payloads (emails, UUIDs with '=' padding) and are not limited to the
// character set NATS allows in KV keys, so both parts are base64url-encoded.
func participantRowKey(sessionUID, participantKey string) string {
	return fmt.Sprintf("%s.%s",
		base64.RawURLEncoding.EncodeToString([]byte(sessionUID)),
		base64.RawURLEncoding.EncodeToString([]byte(participantKey)),
	)
}
