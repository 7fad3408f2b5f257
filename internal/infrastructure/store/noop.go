// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain/models"
)

// NoOpSessionRepository is used when no NATS URL is configured. It reports
// not-ready so callers skip persistence instead of failing requests.
type NoOpSessionRepository struct{}

// NewNoOpSessionRepository creates a disabled session repository.
func NewNoOpSessionRepository() *NoOpSessionRepository {
	return &NoOpSessionRepository{}
}

// IsReady always reports false.
func (r *NoOpSessionRepository) IsReady() bool { return false }

// Get never finds anything.
func (r *NoOpSessionRepository) Get(_ context.Context, _ string) (*models.Session, error) {
	return nil, nil
}

// Upsert discards the update.
func (r *NoOpSessionRepository) Upsert(_ context.Context, uid string, update models.Session) (*models.Session, error) {
	update.UID = uid
	return &update, nil
}

// NoOpParticipantRepository is used when no NATS URL is configured.
type NoOpParticipantRepository struct{}

// NewNoOpParticipantRepository creates a disabled participant repository.
func NewNoOpParticipantRepository() *NoOpParticipantRepository {
	return &NoOpParticipantRepository{}
}

// IsReady always reports false.
func (r *NoOpParticipantRepository) IsReady() bool { return false }

// Get never finds anything.
func (r *NoOpParticipantRepository) Get(_ context.Context, _, _ string) (*models.Participant, error) {
	return nil, nil
}

// Upsert discards the update.
func (r *NoOpParticipantRepository) Upsert(_ context.Context, sessionUID, participantKey string, update models.Participant) (*models.Participant, error) {
	update.SessionUID = sessionUID
	update.Key = participantKey
	return &update, nil
}

// GetHops returns an empty hop log.
func (r *NoOpParticipantRepository) GetHops(_ context.Context, _, _ string) ([]models.Hop, error) {
	return nil, nil
}

// SetHops discards the hop log.
func (r *NoOpParticipantRepository) SetHops(_ context.Context, _, _ string, _ []models.Hop) error {
	return nil
}
