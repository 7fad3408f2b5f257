// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"strings"
	"time"
)

// Participant roles
const (
	RoleAttendee = "attendee"
	RoleHost     = "host"
)

// Room identifiers. A participant is in the main room unless their hop log
// says otherwise. Breakout rooms are identified by "breakout:<room-uuid>";
// when the platform does not tell us which breakout room was entered, the
// sentinel "breakout:unknown" is used.
const (
	RoomMain            = "main"
	RoomBreakoutPrefix  = "breakout:"
	RoomBreakoutUnknown = RoomBreakoutPrefix + "unknown"
)

// ParticipantKeyUnknown is the sentinel participant key used when an event
// carries no identifier at all.
const ParticipantKeyUnknown = "unknown"

// Hop is one room transition in a participant's hop log.
type Hop struct {
	At   time.Time `json:"at"`
	From string    `json:"from"`
	To   string    `json:"to"`
}

// Participant represents one person's presence in a session, keyed by the
// (session UID, participant key) pair.
type Participant struct {
	UID          string     `json:"uid"`
	SessionUID   string     `json:"session_uid"`
	Key          string     `json:"key"`
	Name         string     `json:"name,omitempty"`
	Email        string     `json:"email,omitempty"`
	Role         string     `json:"role,omitempty"`
	PresentFrom  *time.Time `json:"present_from,omitempty"`
	PresentTo    *time.Time `json:"present_to,omitempty"`
	TotalMinutes *int       `json:"total_minutes,omitempty"`
	Hops         []Hop      `json:"hops,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Merge applies the non-empty fields of the update onto the participant and
// recomputes TotalMinutes from the presence bounds. Absent fields never erase
// previously stored values. The hop log is not merged here; it is maintained
// exclusively through the hop log read-modify-write cycle.
func (p *Participant) Merge(update Participant) {
	if update.Name != "" {
		p.Name = update.Name
	}
	if update.Email != "" {
		p.Email = update.Email
	}
	if update.Role != "" {
		p.Role = update.Role
	}
	if update.PresentFrom != nil {
		p.PresentFrom = update.PresentFrom
	}
	if update.PresentTo != nil {
		p.PresentTo = update.PresentTo
	}
	p.RecomputeTotalMinutes()
}

// RecomputeTotalMinutes derives TotalMinutes as the floor of the presence
// interval in whole minutes. It is nil unless both bounds are known.
// TotalMinutes is never stored independently of the bounds.
func (p *Participant) RecomputeTotalMinutes() {
	if p.PresentFrom == nil || p.PresentTo == nil {
		p.TotalMinutes = nil
		return
	}
	minutes := int(p.PresentTo.Sub(*p.PresentFrom).Minutes())
	p.TotalMinutes = &minutes
}

// CurrentRoom returns the room the participant was last seen entering.
func (p *Participant) CurrentRoom() string {
	return CurrentRoom(p.Hops)
}

// CurrentRoom returns the destination of the most recent hop, or the main
// room when the hop log is empty.
func CurrentRoom(hops []Hop) string {
	if len(hops) == 0 {
		return RoomMain
	}
	return hops[len(hops)-1].To
}

// AppendHop appends a transition to the given room iff it differs from the
// current room. Hops are append-only and kept in insertion order; out-of-order
// event timestamps are preserved as delivered (known limitation of the
// at-least-once webhook stream).
func AppendHop(hops []Hop, at time.Time, to string) ([]Hop, bool) {
	from := CurrentRoom(hops)
	if from == to {
		return hops, false
	}
	return append(hops, Hop{At: at, From: from, To: to}), true
}

// BreakoutRoom formats a breakout room identifier from the platform's room
// UUID, falling back to the unknown sentinel when the UUID is absent.
func BreakoutRoom(roomUUID string) string {
	if roomUUID == "" {
		return RoomBreakoutUnknown
	}
	return RoomBreakoutPrefix + roomUUID
}

// IsBreakoutJoinReason reports whether a participant-left reason indicates the
// participant moved to a breakout room rather than disconnecting. Zoom does
// not emit a dedicated breakout-join event, so this is inferred from the
// free-text leave reason. The wording varies across platform versions
// ("join breakout room", "joined breakout room"), so both the verb and the
// room kind are matched.
func IsBreakoutJoinReason(leaveReason string) bool {
	reason := strings.ToLower(leaveReason)
	return strings.Contains(reason, "join") && strings.Contains(reason, "breakout")
}
