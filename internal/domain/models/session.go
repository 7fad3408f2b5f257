// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package models contains the domain models for the attendance service.
package models

import "time"

// Session represents one run of a Zoom meeting, keyed by the Zoom meeting
// instance UUID. The numeric meeting ID is display-only because Zoom reuses it
// across meeting instances.
type Session struct {
	UID       string     `json:"uid"`
	MeetingID string     `json:"meeting_id,omitempty"`
	Topic     string     `json:"topic,omitempty"`
	Timezone  string     `json:"timezone,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Merge applies the non-empty fields of the update onto the session.
// Absent fields never erase previously stored values, so StartedAt cannot be
// cleared once set. An EndedAt that would precede the session start violates
// the session invariant and is dropped; the return value reports whether that
// happened so the caller can log it.
func (s *Session) Merge(update Session) (droppedEndedAt bool) {
	if update.MeetingID != "" {
		s.MeetingID = update.MeetingID
	}
	if update.Topic != "" {
		s.Topic = update.Topic
	}
	if update.Timezone != "" {
		s.Timezone = update.Timezone
	}
	if update.StartedAt != nil {
		s.StartedAt = update.StartedAt
	}
	if update.EndedAt != nil {
		if s.StartedAt != nil && update.EndedAt.Before(*s.StartedAt) {
			droppedEndedAt = true
		} else {
			s.EndedAt = update.EndedAt
		}
	}
	return droppedEndedAt
}
