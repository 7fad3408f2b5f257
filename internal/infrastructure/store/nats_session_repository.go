// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/pkg/utils"
)

// upsertMaxAttempts bounds the retry loop when a concurrent writer bumps the
// row revision between our read and our update.
const upsertMaxAttempts = 3

// NatsSessionRepository is the NATS KV store repository for meeting sessions.
type NatsSessionRepository struct {
	*NatsBaseRepository[models.Session]
}

// NewNatsSessionRepository creates a new NATS KV store repository for sessions.
func NewNatsSessionRepository(kvStore INatsKeyValue) *NatsSessionRepository {
	return &NatsSessionRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Session](kvStore, "session"),
	}
}

// Get retrieves a session by its Zoom meeting UUID.
func (r *NatsSessionRepository) Get(ctx context.Context, uid string) (*models.Session, error) {
	return r.NatsBaseRepository.Get(ctx, sessionRowKey(uid))
}

// Upsert creates the session row on first reference and merges the update into
// the stored row otherwise. Concurrent writers are reconciled by retrying the
// read-merge-update cycle on revision conflicts.
func (r *NatsSessionRepository) Upsert(ctx context.Context, uid string, update models.Session) (*models.Session, error) {
	key := sessionRowKey(uid)

	var lastErr error
	for attempt := 0; attempt < upsertMaxAttempts; attempt++ {
		existing, revision, err := r.GetWithRevision(ctx, key)
		if err != nil {
			if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
				return nil, err
			}

			now := time.Now().UTC()
			session := update
			session.UID = uid
			session.CreatedAt = utils.TimePtr(now)
			session.UpdatedAt = utils.TimePtr(now)
			if createErr := r.Create(ctx, key, &session); createErr != nil {
				if domain.GetErrorType(createErr) == domain.ErrorTypeConflict {
					lastErr = createErr
					continue
				}
				return nil, createErr
			}
			return &session, nil
		}

		session := *existing
		if dropped := session.Merge(update); dropped {
			slog.WarnContext(ctx, "dropping ended timestamp earlier than session start",
				"session_uid", uid,
				"started_at", utils.TimeValue(session.StartedAt),
				"ended_at", utils.TimeValue(update.EndedAt),
			)
		}
		session.UID = uid
		session.UpdatedAt = utils.TimePtr(time.Now().UTC())

		if err := r.Update(ctx, key, &session, revision); err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeConflict {
				lastErr = err
				continue
			}
			return nil, err
		}
		return &session, nil
	}

	slog.ErrorContext(ctx, "session upsert exhausted retries",
		logging.ErrKey, lastErr, logging.PriorityCritical(), "session_uid", uid)
	if lastErr == nil {
		lastErr = errors.New("session upsert exhausted retries")
	}
	return nil, domain.NewConflictError("session is being modified concurrently", lastErr)
}
