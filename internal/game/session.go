// Package game defines the shared session aggregate synchronized across
// clients. The aggregate is owned by the authority: clients replace it
// wholesale on every refetch or push and never patch it in place.
package game

import (
	"time"

	apperrors "github.com/louisbranch/gametable/internal/platform/errors"
)

var (
	// ErrEmptySessionID indicates a session without an identifier.
	ErrEmptySessionID = apperrors.New(apperrors.CodeSessionEmptyID, "session id is required")
	// ErrEmptySessionName indicates a session without a name.
	ErrEmptySessionName = apperrors.New(apperrors.CodeSessionEmptyName, "session name is required")
	// ErrDuplicateParticipantIDs indicates participant ids are not unique.
	ErrDuplicateParticipantIDs = apperrors.New(apperrors.CodeSessionDuplicateIDs, "participant ids must be unique")
)

// Session is the authoritative shared aggregate for one game session.
// Participants keep insertion order; ids are unique within the session.
type Session struct {
	ID           string        `json:"id"`
	Version      uint64        `json:"version"`
	Name         string        `json:"name"`
	Participants []Participant `json:"participants"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Validate checks the aggregate invariants after adoption.
func (s *Session) Validate() error {
	if s.ID == "" {
		return ErrEmptySessionID
	}
	if s.Name == "" {
		return ErrEmptySessionName
	}
	seen := make(map[string]struct{}, len(s.Participants))
	for _, p := range s.Participants {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, ok := seen[p.ID]; ok {
			return ErrDuplicateParticipantIDs
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// FindParticipant returns the participant with the given id.
func (s *Session) FindParticipant(id string) (Participant, bool) {
	if s == nil {
		return Participant{}, false
	}
	for _, p := range s.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}
