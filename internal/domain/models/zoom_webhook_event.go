// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/pkg/utils"
)

// Zoom webhook event types handled by the attendance service. Unrecognized
// event types are accepted and ignored downstream, never rejected.
const (
	EventEndpointURLValidation   = "endpoint.url_validation"
	EventMeetingStarted          = "meeting.started"
	EventMeetingEnded            = "meeting.ended"
	EventParticipantJoined       = "meeting.participant_joined"
	EventParticipantLeft         = "meeting.participant_left"
	EventParticipantRoleChanged  = "meeting.participant_role_changed"
	EventParticipantLeftBreakout = "meeting.participant_left_breakout_room"
)

// ZoomWebhookEvent is the envelope of every Zoom webhook delivery.
type ZoomWebhookEvent struct {
	Event   string          `json:"event"`
	EventTS int64           `json:"event_ts"`
	Payload json.RawMessage `json:"payload"`
}

// ParseZoomWebhookEvent parses the raw request body into the event envelope.
func ParseZoomWebhookEvent(body []byte) (*ZoomWebhookEvent, error) {
	var event ZoomWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ZoomParticipant represents the participant sub-object carried by the
// participant-level webhook events.
type ZoomParticipant struct {
	UserID            string    `json:"user_id"`
	UserName          string    `json:"user_name"`
	ID                string    `json:"id"`
	ParticipantUUID   string    `json:"participant_uuid"`
	ParticipantUserID string    `json:"participant_user_id"`
	Email             string    `json:"email"`
	JoinTime          time.Time `json:"join_time"`
	LeaveTime         time.Time `json:"leave_time"`
	LeaveReason       string    `json:"leave_reason"`
	NewRole           string    `json:"new_role"`
	DateTime          time.Time `json:"date_time"`
	Duration          int       `json:"duration"`
}

// Key resolves the stable participant key for this participant. Preference
// order: per-participant UUID, email, platform user identifiers, display
// name, then the unknown sentinel. Zoom omits different identifier fields
// depending on account settings and client version.
func (p ZoomParticipant) Key() string {
	return utils.CoalesceString(
		p.ParticipantUUID,
		p.Email,
		p.ParticipantUserID,
		p.UserID,
		p.UserName,
		ParticipantKeyUnknown,
	)
}

// ZoomMeetingObject is the meeting object shared by the meeting and
// participant webhook payloads. Zoom sends the numeric meeting ID as a string
// in webhook events.
type ZoomMeetingObject struct {
	UUID             string          `json:"uuid"`
	ID               string          `json:"id"`
	HostID           string          `json:"host_id"`
	Topic            string          `json:"topic"`
	Type             int             `json:"type"`
	StartTime        time.Time       `json:"start_time"`
	EndTime          time.Time       `json:"end_time"`
	Timezone         string          `json:"timezone"`
	Duration         int             `json:"duration"`
	BreakoutRoomUUID string          `json:"breakout_room_uuid"`
	Participant      ZoomParticipant `json:"participant"`
}

// ZoomURLValidationPayload is the payload of the endpoint.url_validation
// handshake event.
type ZoomURLValidationPayload struct {
	PlainToken string `json:"plainToken"`
}

// ZoomURLValidationResponse is the response body Zoom expects for the
// endpoint.url_validation handshake.
type ZoomURLValidationResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}

// ZoomMeetingStartedPayload represents the payload for meeting.started webhook events
type ZoomMeetingStartedPayload struct {
	Object ZoomMeetingObject `json:"object"`
}

// ZoomMeetingEndedPayload represents the payload for meeting.ended webhook events
type ZoomMeetingEndedPayload struct {
	Object ZoomMeetingObject `json:"object"`
}

// ZoomParticipantJoinedPayload represents the payload for meeting.participant_joined webhook events
type ZoomParticipantJoinedPayload struct {
	Object ZoomMeetingObject `json:"object"`
}

// ZoomParticipantLeftPayload represents the payload for meeting.participant_left webhook events
type ZoomParticipantLeftPayload struct {
	Object ZoomMeetingObject `json:"object"`
}

// ZoomParticipantRoleChangedPayload represents the payload for meeting.participant_role_changed webhook events
type ZoomParticipantRoleChangedPayload struct {
	Object ZoomMeetingObject `json:"object"`
}

// ZoomParticipantLeftBreakoutPayload represents the payload for
// meeting.participant_left_breakout_room webhook events
type ZoomParticipantLeftBreakoutPayload struct {
	Object ZoomMeetingObject `json:"object"`
}

// Helper methods to convert the generic webhook event to typed payloads

func (z *ZoomWebhookEvent) unmarshalPayload(expectedEvent string, out any) error {
	if z.Event != expectedEvent {
		return fmt.Errorf("invalid event type: expected %s, got %s", expectedEvent, z.Event)
	}
	if len(z.Payload) == 0 {
		return fmt.Errorf("missing payload for %s event", expectedEvent)
	}
	if err := json.Unmarshal(z.Payload, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", expectedEvent, err)
	}
	return nil
}

// ToURLValidationPayload converts the webhook event to a typed URL validation payload
func (z *ZoomWebhookEvent) ToURLValidationPayload() (*ZoomURLValidationPayload, error) {
	var payload ZoomURLValidationPayload
	if err := z.unmarshalPayload(EventEndpointURLValidation, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToMeetingStartedPayload converts the webhook event to a typed meeting started payload
func (z *ZoomWebhookEvent) ToMeetingStartedPayload() (*ZoomMeetingStartedPayload, error) {
	var payload ZoomMeetingStartedPayload
	if err := z.unmarshalPayload(EventMeetingStarted, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToMeetingEndedPayload converts the webhook event to a typed meeting ended payload
func (z *ZoomWebhookEvent) ToMeetingEndedPayload() (*ZoomMeetingEndedPayload, error) {
	var payload ZoomMeetingEndedPayload
	if err := z.unmarshalPayload(EventMeetingEnded, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToParticipantJoinedPayload converts the webhook event to a typed participant joined payload
func (z *ZoomWebhookEvent) ToParticipantJoinedPayload() (*ZoomParticipantJoinedPayload, error) {
	var payload ZoomParticipantJoinedPayload
	if err := z.unmarshalPayload(EventParticipantJoined, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToParticipantLeftPayload converts the webhook event to a typed participant left payload
func (z *ZoomWebhookEvent) ToParticipantLeftPayload() (*ZoomParticipantLeftPayload, error) {
	var payload ZoomParticipantLeftPayload
	if err := z.unmarshalPayload(EventParticipantLeft, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToParticipantRoleChangedPayload converts the webhook event to a typed participant role changed payload
func (z *ZoomWebhookEvent) ToParticipantRoleChangedPayload() (*ZoomParticipantRoleChangedPayload, error) {
	var payload ZoomParticipantRoleChangedPayload
	if err := z.unmarshalPayload(EventParticipantRoleChanged, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToParticipantLeftBreakoutPayload converts the webhook event to a typed
// participant left breakout room payload
func (z *ZoomWebhookEvent) ToParticipantLeftBreakoutPayload() (*ZoomParticipantLeftBreakoutPayload, error) {
	var payload ZoomParticipantLeftBreakoutPayload
	if err := z.unmarshalPayload(EventParticipantLeftBreakout, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SessionUpdate extracts the session metadata carried by the meeting object.
// Start and end times are included only when the event actually carries them.
func (o *ZoomMeetingObject) SessionUpdate() Session {
	update := Session{
		UID:       o.UUID,
		MeetingID: o.ID,
		Topic:     o.Topic,
		Timezone:  o.Timezone,
	}
	if !o.StartTime.IsZero() {
		update.StartedAt = utils.TimePtr(o.StartTime)
	}
	if !o.EndTime.IsZero() {
		update.EndedAt = utils.TimePtr(o.EndTime)
	}
	return update
}
