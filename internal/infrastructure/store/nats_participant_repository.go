// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/pkg/utils"
)

// NatsParticipantRepository is the NATS KV store repository for participant
// rows. Rows are keyed by the (session UID, participant key) pair.
type NatsParticipantRepository struct {
	*NatsBaseRepository[models.Participant]
}

// NewNatsParticipantRepository creates a new NATS KV store repository for
// participants.
func NewNatsParticipantRepository(kvStore INatsKeyValue) *NatsParticipantRepository {
	return &NatsParticipantRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Participant](kvStore, "participant"),
	}
}

// Get retrieves a participant row.
func (r *NatsParticipantRepository) Get(ctx context.Context, sessionUID, participantKey string) (*models.Participant, error) {
	return r.NatsBaseRepository.Get(ctx, participantRowKey(sessionUID, participantKey))
}

// Upsert creates the participant row on first reference and merges the update
// into the stored row otherwise. Hops are not touched here; they are mutated
// only through GetHops/SetHops.
func (r *NatsParticipantRepository) Upsert(ctx context.Context, sessionUID, participantKey string, update models.Participant) (*models.Participant, error) {
	key := participantRowKey(sessionUID, participantKey)

	var lastErr error
	for attempt := 0; attempt < upsertMaxAttempts; attempt++ {
		existing, revision, err := r.GetWithRevision(ctx, key)
		if err != nil {
			if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
				return nil, err
			}

			now := time.Now().UTC()
			participant := update
			participant.UID = uuid.New().String()
			participant.SessionUID = sessionUID
			participant.Key = participantKey
			participant.CreatedAt = utils.TimePtr(now)
			participant.UpdatedAt = utils.TimePtr(now)
			participant.RecomputeTotalMinutes()
			if createErr := r.Create(ctx, key, &participant); createErr != nil {
				if domain.GetErrorType(createErr) == domain.ErrorTypeConflict {
					lastErr = createErr
					continue
				}
				return nil, createErr
			}
			return &participant, nil
		}

		participant := *existing
		participant.Merge(update)
		participant.SessionUID = sessionUID
		participant.Key = participantKey
		participant.UpdatedAt = utils.TimePtr(time.Now().UTC())

		if err := r.Update(ctx, key, &participant, revision); err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeConflict {
				lastErr = err
				continue
			}
			return nil, err
		}
		return &participant, nil
	}

	slog.ErrorContext(ctx, "participant upsert exhausted retries",
		logging.ErrKey, lastErr, logging.PriorityCritical(),
		"session_uid", sessionUID, "participant_key", participantKey)
	if lastErr == nil {
		lastErr = errors.New("participant upsert exhausted retries")
	}
	return nil, domain.NewConflictError("participant is being modified concurrently", lastErr)
}

// GetHops returns the participant's hop log. A missing row yields an empty
// log rather than an error so hop inference can treat first sight and known
// rows the same way.
func (r *NatsParticipantRepository) GetHops(ctx context.Context, sessionUID, participantKey string) ([]models.Hop, error) {
	participant, err := r.Get(ctx, sessionUID, participantKey)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, nil
		}
		return nil, err
	}
	return participant.Hops, nil
}

// SetHops replaces the participant's hop log, creating the row if needed.
// Callers hold the per-participant lock across the GetHops/SetHops cycle, so
// revision conflicts here indicate an unrelated field update racing in; the
// write is retried with a fresh read.
func (r *NatsParticipantRepository) SetHops(ctx context.Context, sessionUID, participantKey string, hops []models.Hop) error {
	key := participantRowKey(sessionUID, participantKey)

	var lastErr error
	for attempt := 0; attempt < upsertMaxAttempts; attempt++ {
		existing, revision, err := r.GetWithRevision(ctx, key)
		if err != nil {
			if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
				return err
			}

			now := time.Now().UTC()
			participant := models.Participant{
				UID:        uuid.New().String(),
				SessionUID: sessionUID,
				Key:        participantKey,
				Hops:       hops,
				CreatedAt:  utils.TimePtr(now),
				UpdatedAt:  utils.TimePtr(now),
			}
			if createErr := r.Create(ctx, key, &participant); createErr != nil {
				if domain.GetErrorType(createErr) == domain.ErrorTypeConflict {
					lastErr = createErr
					continue
				}
				return createErr
			}
			return nil
		}

		participant := *existing
		participant.Hops = hops
		participant.UpdatedAt = utils.TimePtr(time.Now().UTC())

		if err := r.Update(ctx, key, &participant, revision); err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeConflict {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}

	slog.ErrorContext(ctx, "participant hop update exhausted retries",
		logging.ErrKey, lastErr, logging.PriorityCritical(),
		"session_uid", sessionUID, "participant_key", participantKey)
	if lastErr == nil {
		lastErr = errors.New("participant hop update exhausted retries")
	}
	return domain.NewConflictError("participant is being modified concurrently", lastErr)
}
