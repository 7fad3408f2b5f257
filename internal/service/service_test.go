// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"sync"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain/models"
)

// fakeSessionRepo is an in-memory SessionRepository preserving the merge
// semantics of the real store.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	upserts  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionRepo) IsReady() bool { return true }

func (f *fakeSessionRepo) Get(_ context.Context, uid string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[uid]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionRepo) Upsert(_ context.Context, uid string, update models.Session) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	session, ok := f.sessions[uid]
	if !ok {
		created := update
		created.UID = uid
		f.sessions[uid] = &created
		copied := created
		return &copied, nil
	}
	session.Merge(update)
	copied := *session
	return &copied, nil
}

// fakeParticipantRepo is an in-memory ParticipantRepository preserving the
// merge and hop-log semantics of the real store.
type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[string]*models.Participant
	upserts      int
	setHopsCalls int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[string]*models.Participant)}
}

func (f *fakeParticipantRepo) rowKey(sessionUID, participantKey string) string {
	return sessionUID + "|" + participantKey
}

func (f *fakeParticipantRepo) IsReady() bool { return true }

func (f *fakeParticipantRepo) Get(_ context.Context, sessionUID, participantKey string) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	participant, ok := f.participants[f.rowKey(sessionUID, participantKey)]
	if !ok {
		return nil, nil
	}
	copied := *participant
	return &copied, nil
}

func (f *fakeParticipantRepo) Upsert(_ context.Context, sessionUID, participantKey string, update models.Participant) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	key := f.rowKey(sessionUID, participantKey)
	participant, ok := f.participants[key]
	if !ok {
		created := update
		created.SessionUID = sessionUID
		created.Key = participantKey
		created.RecomputeTotalMinutes()
		f.participants[key] = &created
		copied := created
		return &copied, nil
	}
	participant.Merge(update)
	copied := *participant
	return &copied, nil
}

func (f *fakeParticipantRepo) GetHops(_ context.Context, sessionUID, participantKey string) ([]models.Hop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	participant, ok := f.participants[f.rowKey(sessionUID, participantKey)]
	if !ok {
		return nil, nil
	}
	return append([]models.Hop(nil), participant.Hops...), nil
}

func (f *fakeParticipantRepo) SetHops(_ context.Context, sessionUID, participantKey string, hops []models.Hop) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setHopsCalls++
	key := f.rowKey(sessionUID, participantKey)
	participant, ok := f.participants[key]
	if !ok {
		participant = &models.Participant{SessionUID: sessionUID, Key: participantKey}
		f.participants[key] = participant
	}
	participant.Hops = hops
	return nil
}
