// Package event defines the server-held session event history records.
package event

import (
	"encoding/json"
	"strings"
	"time"
)

// Type identifies the kind of a session event.
type Type string

// Session lifecycle events.
const (
	// TypeSessionStarted records the start of a session.
	TypeSessionStarted Type = "session.started"
	// TypeSessionEnded records the end of a session.
	TypeSessionEnded Type = "session.ended"
)

// Participant events.
const (
	// TypeParticipantJoined records a participant joining a session.
	TypeParticipantJoined Type = "participant.joined"
	// TypeParticipantLeft records a participant leaving a session.
	TypeParticipantLeft Type = "participant.left"
	// TypeParticipantRenamed records a participant display name change.
	TypeParticipantRenamed Type = "participant.renamed"
)

// Character events.
const (
	// TypeCharacterUpdated records any character attribute change.
	TypeCharacterUpdated Type = "character.updated"
	// TypeInventoryChanged records an inventory or item change.
	TypeInventoryChanged Type = "character.inventory_changed"
)

// Action events.
const (
	// TypeDiceRolled records a resolved dice roll.
	TypeDiceRolled Type = "dice.rolled"
)

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "participant").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}

// GameEvent is an immutable record in the authority's session history.
type GameEvent struct {
	// SessionID is the session this event belongs to.
	SessionID string `json:"sessionId"`
	// Type identifies the kind of event.
	Type Type `json:"type"`
	// ActorID is the participant that triggered the event, if any.
	ActorID string `json:"actorId,omitempty"`
	// ActorName is the display name of the actor at event time.
	ActorName string `json:"actorName,omitempty"`
	// Message is the authority-rendered human-readable description.
	Message string `json:"message"`
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
	// Payload holds event-specific data as JSON.
	Payload json.RawMessage `json:"payload,omitempty"`
}
