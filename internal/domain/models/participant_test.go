// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/pkg/utils"
)

func TestParticipantMerge(t *testing.T) {
	join := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	leave := join.Add(31*time.Minute + 45*time.Second)

	t.Run("merges non-empty fields and recomputes total minutes", func(t *testing.T) {
		participant := Participant{
			SessionUID:  "uuid-1",
			Key:         "a@b.com",
			Name:        "Ada Lovelace",
			PresentFrom: utils.TimePtr(join),
		}
		participant.Merge(Participant{
			Email:     "a@b.com",
			Role:      RoleHost,
			PresentTo: utils.TimePtr(leave),
		})

		assert.Equal(t, "Ada Lovelace", participant.Name)
		assert.Equal(t, "a@b.com", participant.Email)
		assert.Equal(t, RoleHost, participant.Role)
		assert.Equal(t, join, *participant.PresentFrom)
		assert.Equal(t, leave, *participant.PresentTo)
		// Floor of 31m45s is 31 whole minutes.
		assert.Equal(t, 31, utils.IntValue(participant.TotalMinutes))
	})

	t.Run("total minutes is nil with a missing bound", func(t *testing.T) {
		participant := Participant{SessionUID: "uuid-1", Key: "a@b.com"}
		participant.Merge(Participant{PresentFrom: utils.TimePtr(join)})
		assert.Nil(t, participant.TotalMinutes)

		participant = Participant{SessionUID: "uuid-1", Key: "a@b.com"}
		participant.Merge(Participant{PresentTo: utils.TimePtr(leave)})
		assert.Nil(t, participant.TotalMinutes)
	})

	t.Run("absent fields preserve stored values", func(t *testing.T) {
		participant := Participant{
			SessionUID:  "uuid-1",
			Key:         "a@b.com",
			Name:        "Ada Lovelace",
			Role:        RoleHost,
			PresentFrom: utils.TimePtr(join),
		}
		participant.Merge(Participant{PresentTo: utils.TimePtr(leave)})

		assert.Equal(t, "Ada Lovelace", participant.Name)
		assert.Equal(t, RoleHost, participant.Role)
		assert.NotNil(t, participant.PresentFrom)
	})
}

func TestCurrentRoom(t *testing.T) {
	now := time.Now()

	assert.Equal(t, RoomMain, CurrentRoom(nil))
	assert.Equal(t, RoomMain, CurrentRoom([]Hop{}))

	hops := []Hop{
		{At: now, From: RoomMain, To: "breakout:xyz"},
	}
	assert.Equal(t, "breakout:xyz", CurrentRoom(hops))

	hops = append(hops, Hop{At: now.Add(time.Minute), From: "breakout:xyz", To: RoomMain})
	assert.Equal(t, RoomMain, CurrentRoom(hops))
}

func TestAppendHop(t *testing.T) {
	now := time.Now()

	t.Run("appends when destination differs", func(t *testing.T) {
		hops, appended := AppendHop(nil, now, RoomBreakoutUnknown)
		assert.True(t, appended)
		assert.Len(t, hops, 1)
		assert.Equal(t, RoomMain, hops[0].From)
		assert.Equal(t, RoomBreakoutUnknown, hops[0].To)
		assert.Equal(t, now, hops[0].At)
	})

	t.Run("no hop when already in the destination room", func(t *testing.T) {
		hops, appended := AppendHop(nil, now, RoomMain)
		assert.False(t, appended)
		assert.Empty(t, hops)
	})

	t.Run("preserves insertion order for out-of-order timestamps", func(t *testing.T) {
		hops, _ := AppendHop(nil, now, "breakout:xyz")
		hops, appended := AppendHop(hops, now.Add(-time.Hour), RoomMain)

		assert.True(t, appended)
		assert.Len(t, hops, 2)
		assert.Equal(t, "breakout:xyz", hops[0].To)
		assert.Equal(t, RoomMain, hops[1].To)
	})
}

func TestBreakoutRoom(t *testing.T) {
	assert.Equal(t, "breakout:xyz", BreakoutRoom("xyz"))
	assert.Equal(t, RoomBreakoutUnknown, BreakoutRoom(""))
}

func TestIsBreakoutJoinReason(t *testing.T) {
	tests := []struct {
		reason   string
		expected bool
	}{
		{"Participant joined breakout room", true},
		{"left to join breakout room", true},
		{"Join Breakout Room", true},
		{"JOIN BREAKOUT", true},
		{"left the meeting", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBreakoutJoinReason(tt.reason))
		})
	}
}

func TestZoomParticipantKey(t *testing.T) {
	tests := []struct {
		name        string
		participant ZoomParticipant
		expected    string
	}{
		{
			name: "participant uuid preferred",
			participant: ZoomParticipant{
				ParticipantUUID: "uuid-9",
				Email:           "a@b.com",
				UserID:          "u-1",
				UserName:        "Ada",
			},
			expected: "uuid-9",
		},
		{
			name: "email when uuid absent",
			participant: ZoomParticipant{
				Email:    "a@b.com",
				UserID:   "u-1",
				UserName: "Ada",
			},
			expected: "a@b.com",
		},
		{
			name: "platform user id when email absent",
			participant: ZoomParticipant{
				ParticipantUserID: "pu-2",
				UserID:            "u-1",
				UserName:          "Ada",
			},
			expected: "pu-2",
		},
		{
			name:        "display name as last resort",
			participant: ZoomParticipant{UserName: "Ada"},
			expected:    "Ada",
		},
		{
			name:        "unknown sentinel when no identifiers",
			participant: ZoomParticipant{},
			expected:    ParticipantKeyUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.participant.Key())
		})
	}
}
