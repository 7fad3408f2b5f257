// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/pkg/utils"
)

// PresenceTracker maintains participant rows and their breakout-room hop logs.
// Hop appends are a read-modify-write over the stored hop sequence, so all
// mutations for one (session, participant) pair are serialized through a
// per-key mutex.
type PresenceTracker struct {
	participantRepository domain.ParticipantRepository
	keyMutex              *concurrent.KeyMutex

	// now is swapped in tests. Event timestamps fall back to it when the
	// platform omits them.
	now func() time.Time
}

// NewPresenceTracker creates a new participant presence tracker service.
func NewPresenceTracker(participantRepository domain.ParticipantRepository) *PresenceTracker {
	return &PresenceTracker{
		participantRepository: participantRepository,
		keyMutex:              concurrent.NewKeyMutex(),
		now:                   time.Now,
	}
}

// ApplyPresence applies one participant-level event to the participant's row.
// Events that carry no presence information are ignored.
func (s *PresenceTracker) ApplyPresence(ctx context.Context, event *models.ZoomWebhookEvent) error {
	if !s.participantRepository.IsReady() {
		slog.DebugContext(ctx, "participant store not configured, skipping presence tracking",
			"event_type", event.Event)
		return nil
	}

	switch event.Event {
	case models.EventParticipantJoined:
		return s.applyJoined(ctx, event)
	case models.EventParticipantLeft:
		return s.applyLeft(ctx, event)
	case models.EventParticipantRoleChanged:
		return s.applyRoleChanged(ctx, event)
	case models.EventParticipantLeftBreakout:
		return s.applyLeftBreakout(ctx, event)
	default:
		return nil
	}
}

func (s *PresenceTracker) applyJoined(ctx context.Context, event *models.ZoomWebhookEvent) error {
	payload, err := event.ToParticipantJoinedPayload()
	if err != nil {
		return domain.NewValidationError("malformed participant_joined payload", err)
	}
	object := payload.Object
	if object.UUID == "" {
		return domain.NewValidationError("event is missing the meeting UUID")
	}
	participant := object.Participant
	key := participant.Key()
	at := s.eventTime(participant.JoinTime)

	unlock := s.keyMutex.Lock(lockKey(object.UUID, key))
	defer unlock()

	update := models.Participant{
		Name:        participant.UserName,
		Email:       participant.Email,
		Role:        models.RoleAttendee,
		PresentFrom: utils.TimePtr(at),
	}
	if _, err := s.participantRepository.Upsert(ctx, object.UUID, key, update); err != nil {
		return s.logPresenceError(ctx, event, object.UUID, key, err)
	}

	// A join always lands in the main room. If the hop log says otherwise the
	// participant returned from a breakout room without a dedicated event.
	return s.hopTo(ctx, object.UUID, key, at, models.RoomMain, "")
}

func (s *PresenceTracker) applyLeft(ctx context.Context, event *models.ZoomWebhookEvent) error {
	payload, err := event.ToParticipantLeftPayload()
	if err != nil {
		return domain.NewValidationError("malformed participant_left payload", err)
	}
	object := payload.Object
	if object.UUID == "" {
		return domain.NewValidationError("event is missing the meeting UUID")
	}
	participant := object.Participant
	key := participant.Key()
	at := s.eventTime(participant.LeaveTime)

	unlock := s.keyMutex.Lock(lockKey(object.UUID, key))
	defer unlock()

	update := models.Participant{
		Name:      participant.UserName,
		Email:     participant.Email,
		PresentTo: utils.TimePtr(at),
	}
	if _, err := s.participantRepository.Upsert(ctx, object.UUID, key, update); err != nil {
		return s.logPresenceError(ctx, event, object.UUID, key, err)
	}

	// Zoom reports a move into a breakout room as a leave with a telltale
	// reason. The destination room is not named there, hence the sentinel.
	if models.IsBreakoutJoinReason(participant.LeaveReason) {
		return s.hopTo(ctx, object.UUID, key, at, models.RoomBreakoutUnknown, "")
	}
	return nil
}

func (s *PresenceTracker) applyRoleChanged(ctx context.Context, event *models.ZoomWebhookEvent) error {
	payload, err := event.ToParticipantRoleChangedPayload()
	if err != nil {
		return domain.NewValidationError("malformed participant_role_changed payload", err)
	}
	object := payload.Object
	if object.UUID == "" {
		return domain.NewValidationError("event is missing the meeting UUID")
	}
	participant := object.Participant
	key := participant.Key()

	role := models.RoleAttendee
	if strings.EqualFold(participant.NewRole, models.RoleHost) {
		role = models.RoleHost
	}

	unlock := s.keyMutex.Lock(lockKey(object.UUID, key))
	defer unlock()

	update := models.Participant{
		Name:  participant.UserName,
		Email: participant.Email,
		Role:  role,
	}
	if _, err := s.participantRepository.Upsert(ctx, object.UUID, key, update); err != nil {
		return s.logPresenceError(ctx, event, object.UUID, key, err)
	}
	return nil
}

func (s *PresenceTracker) applyLeftBreakout(ctx context.Context, event *models.ZoomWebhookEvent) error {
	payload, err := event.ToParticipantLeftBreakoutPayload()
	if err != nil {
		return domain.NewValidationError("malformed participant_left_breakout_room payload", err)
	}
	object := payload.Object
	if object.UUID == "" {
		return domain.NewValidationError("event is missing the meeting UUID")
	}
	participant := object.Participant
	key := participant.Key()
	at := s.eventTime(participant.LeaveTime)

	unlock := s.keyMutex.Lock(lockKey(object.UUID, key))
	defer unlock()

	// The row must exist even when the join was never observed. Presence
	// bounds stay untouched.
	update := models.Participant{
		Name:  participant.UserName,
		Email: participant.Email,
	}
	if _, err := s.participantRepository.Upsert(ctx, object.UUID, key, update); err != nil {
		return s.logPresenceError(ctx, event, object.UUID, key, err)
	}

	// When there is no hop history the source room comes from the event
	// itself rather than the tracked state.
	return s.hopTo(ctx, object.UUID, key, at, models.RoomMain, models.BreakoutRoom(object.BreakoutRoomUUID))
}

// hopTo appends a hop into the given room unless the participant is already
// tracked there. fallbackFrom, when non-empty, overrides the source room for
// participants with no hop history. The caller holds the per-key lock.
func (s *PresenceTracker) hopTo(ctx context.Context, sessionUID, participantKey string, at time.Time, to, fallbackFrom string) error {
	hops, err := s.participantRepository.GetHops(ctx, sessionUID, participantKey)
	if err != nil {
		slog.ErrorContext(ctx, "error reading hop log", logging.ErrKey, err,
			"session_uid", sessionUID, "participant_key", participantKey)
		return err
	}

	if len(hops) == 0 && fallbackFrom != "" {
		if fallbackFrom == to {
			return nil
		}
		hops = append(hops, models.Hop{At: at, From: fallbackFrom, To: to})
	} else {
		var appended bool
		hops, appended = models.AppendHop(hops, at, to)
		if !appended {
			return nil
		}
	}

	if err := s.participantRepository.SetHops(ctx, sessionUID, participantKey, hops); err != nil {
		slog.ErrorContext(ctx, "error writing hop log", logging.ErrKey, err,
			"session_uid", sessionUID, "participant_key", participantKey)
		return err
	}

	slog.DebugContext(ctx, "appended room hop",
		"session_uid", sessionUID,
		"participant_key", participantKey,
		"to", to,
		"hop_count", len(hops),
	)
	return nil
}

// eventTime returns the event-supplied timestamp, falling back to the wall
// clock when the platform omitted it.
func (s *PresenceTracker) eventTime(t time.Time) time.Time {
	if t.IsZero() {
		return s.now().UTC()
	}
	return t
}

func (s *PresenceTracker) logPresenceError(ctx context.Context, event *models.ZoomWebhookEvent, sessionUID, participantKey string, err error) error {
	slog.ErrorContext(ctx, "error upserting participant", logging.ErrKey, err,
		"event_type", event.Event,
		"session_uid", sessionUID,
		"participant_key", participantKey,
	)
	return err
}

// lockKey scopes the per-key mutex to one participant within one session.
func lockKey(sessionUID, participantKey string) string {
	return fmt.Sprintf("%s|%s", sessionUID, participantKey)
}
