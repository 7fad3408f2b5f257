// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the attendance use cases: reconciling session
// rows and tracking participant presence from the webhook event stream.
package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/pkg/utils"
)

// SessionReconciler folds meeting-level webhook events into session rows. The
// event stream is unordered and at-least-once, so every operation is an
// idempotent merge keyed by the Zoom meeting instance UUID.
type SessionReconciler struct {
	sessionRepository domain.SessionRepository
}

// NewSessionReconciler creates a new session reconciler service.
func NewSessionReconciler(sessionRepository domain.SessionRepository) *SessionReconciler {
	return &SessionReconciler{
		sessionRepository: sessionRepository,
	}
}

// Reconcile merges the session metadata carried by the event into the stored
// session row. Events that carry no session metadata are ignored.
func (s *SessionReconciler) Reconcile(ctx context.Context, event *models.ZoomWebhookEvent) error {
	if !s.sessionRepository.IsReady() {
		slog.DebugContext(ctx, "session store not configured, skipping reconciliation",
			"event_type", event.Event)
		return nil
	}

	object, err := meetingObject(event)
	if err != nil {
		return err
	}
	if object == nil {
		slog.DebugContext(ctx, "event carries no session metadata, skipping reconciliation",
			"event_type", event.Event)
		return nil
	}
	if object.UUID == "" {
		return domain.NewValidationError("event is missing the meeting UUID")
	}

	update := object.SessionUpdate()
	switch event.Event {
	case models.EventMeetingStarted, models.EventMeetingEnded:
		// Start and end times are authoritative only on their own events.
	default:
		// Participant events merge session metadata only.
		update.StartedAt = nil
		update.EndedAt = nil
	}

	session, err := s.sessionRepository.Upsert(ctx, object.UUID, update)
	if err != nil {
		slog.ErrorContext(ctx, "error reconciling session", logging.ErrKey, err,
			"event_type", event.Event, "session_uid", object.UUID)
		return err
	}

	slog.DebugContext(ctx, "reconciled session",
		"event_type", event.Event,
		"session_uid", session.UID,
		"started_at", utils.TimeValue(session.StartedAt),
		"ended_at", utils.TimeValue(session.EndedAt),
	)
	return nil
}

// meetingObject extracts the shared meeting object from any event kind that
// carries one. Unrecognized kinds yield (nil, nil).
func meetingObject(event *models.ZoomWebhookEvent) (*models.ZoomMeetingObject, error) {
	switch event.Event {
	case models.EventMeetingStarted:
		payload, err := event.ToMeetingStartedPayload()
		if err != nil {
			return nil, domain.NewValidationError("malformed meeting.started payload", err)
		}
		return &payload.Object, nil
	case models.EventMeetingEnded:
		payload, err := event.ToMeetingEndedPayload()
		if err != nil {
			return nil, domain.NewValidationError("malformed meeting.ended payload", err)
		}
		return &payload.Object, nil
	case models.EventParticipantJoined:
		payload, err := event.ToParticipantJoinedPayload()
		if err != nil {
			return nil, domain.NewValidationError("malformed participant_joined payload", err)
		}
		return &payload.Object, nil
	case models.EventParticipantLeft:
		payload, err := event.ToParticipantLeftPayload()
		if err != nil {
			return nil, domain.NewValidationError("malformed participant_left payload", err)
		}
		return &payload.Object, nil
	case models.EventParticipantRoleChanged:
		payload, err := event.ToParticipantRoleChangedPayload()
		if err != nil {
			return nil, domain.NewValidationError("malformed participant_role_changed payload", err)
		}
		return &payload.Object, nil
	case models.EventParticipantLeftBreakout:
		payload, err := event.ToParticipantLeftBreakoutPayload()
		if err != nil {
			return nil, domain.NewValidationError("malformed participant_left_breakout_room payload", err)
		}
		return &payload.Object, nil
	default:
		return nil, nil
	}
}
