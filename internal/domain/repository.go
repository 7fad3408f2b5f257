// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain/models"
)

// SessionRepository is the durable-store contract for session rows. Upserts
// use field-merge semantics: absent fields in the update never overwrite
// previously stored values.
type SessionRepository interface {
	IsReady() bool
	Get(ctx context.Context, uid string) (*models.Session, error)
	// Upsert creates the session on first reference and merges the update
	// into the stored row otherwise. It returns the stored state after the
	// merge.
	Upsert(ctx context.Context, uid string, update models.Session) (*models.Session, error)
}

// ParticipantRepository is the durable-store contract for participant rows,
// keyed by the (session UID, participant key) pair. The hop log is owned by
// the participant row; GetHops/SetHops implement the read-modify-write cycle
// used for hop appends. Callers must serialize mutations per key; the store
// does not arbitrate concurrent writers beyond revision conflicts.
type ParticipantRepository interface {
	IsReady() bool
	Get(ctx context.Context, sessionUID, participantKey string) (*models.Participant, error)
	// Upsert creates the participant row on first reference and merges the
	// update into the stored row otherwise. It returns the stored state
	// after the merge.
	Upsert(ctx context.Context, sessionUID, participantKey string, update models.Participant) (*models.Participant, error)
	// GetHops returns the participant's hop log, empty when the row does
	// not exist yet.
	GetHops(ctx context.Context, sessionUID, participantKey string) ([]models.Hop, error)
	// SetHops replaces the participant's hop log with the given sequence,
	// creating the row if needed.
	SetHops(ctx context.Context, sessionUID, participantKey string, hops []models.Hop) error
}
