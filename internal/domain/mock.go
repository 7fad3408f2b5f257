// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain/models"
)

// MockSessionRepository implements SessionRepository for testing
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, uid string) (*models.Session, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) Upsert(ctx context.Context, uid string, update models.Session) (*models.Session, error) {
	args := m.Called(ctx, uid, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

// MockParticipantRepository implements ParticipantRepository for testing
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockParticipantRepository) Get(ctx context.Context, sessionUID, participantKey string) (*models.Participant, error) {
	args := m.Called(ctx, sessionUID, participantKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) Upsert(ctx context.Context, sessionUID, participantKey string, update models.Participant) (*models.Participant, error) {
	args := m.Called(ctx, sessionUID, participantKey, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) GetHops(ctx context.Context, sessionUID, participantKey string) ([]models.Hop, error) {
	args := m.Called(ctx, sessionUID, participantKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Hop), args.Error(1)
}

func (m *MockParticipantRepository) SetHops(ctx context.Context, sessionUID, participantKey string, hops []models.Hop) error {
	args := m.Called(ctx, sessionUID, participantKey, hops)
	return args.Error(0)
}

// MockEventForwarder implements EventForwarder for testing
type MockEventForwarder struct {
	mock.Mock
}

func (m *MockEventForwarder) Forward(ctx context.Context, eventType string, rawBody []byte) error {
	args := m.Called(ctx, eventType, rawBody)
	return args.Error(0)
}
