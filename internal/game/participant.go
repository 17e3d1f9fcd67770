package game

import (
	apperrors "github.com/louisbranch/gametable/internal/platform/errors"
)

// Role describes how a participant acts inside a session.
type Role string

const (
	// RolePlayer is a participant who owns exactly one character.
	RolePlayer Role = "player"
	// RoleGameMaster is a participant who runs the session and owns no character.
	RoleGameMaster Role = "gamemaster"
)

// IsValid reports whether the role is a known value.
func (r Role) IsValid() bool {
	return r == RolePlayer || r == RoleGameMaster
}

var (
	// ErrEmptyParticipantID indicates a participant without an identifier.
	ErrEmptyParticipantID = apperrors.New(apperrors.CodeParticipantEmptyID, "participant id is required")
	// ErrEmptyParticipantName indicates a participant without a display name.
	ErrEmptyParticipantName = apperrors.New(apperrors.CodeParticipantEmptyName, "participant name is required")
	// ErrInvalidRole indicates a missing or unknown participant role.
	ErrInvalidRole = apperrors.New(apperrors.CodeParticipantInvalidRole, "participant role is invalid")
	// ErrPlayerWithoutCharacter indicates a player participant missing its character.
	ErrPlayerWithoutCharacter = apperrors.New(apperrors.CodeParticipantNoCharacter, "player must own a character")
	// ErrGameMasterWithCharacter indicates a game master carrying a character.
	ErrGameMasterWithCharacter = apperrors.New(apperrors.CodeParticipantHasCharacter, "game master owns no character")
)

// Participant is a named actor inside a session. Participants are created
// server-side and referenced, never mutated, by this client core.
type Participant struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Role      Role       `json:"role"`
	AvatarURL string     `json:"avatarUrl,omitempty"`
	Character *Character `json:"character,omitempty"`
}

// Validate checks the participant variant invariants.
func (p Participant) Validate() error {
	if p.ID == "" {
		return ErrEmptyParticipantID
	}
	if p.Name == "" {
		return ErrEmptyParticipantName
	}
	if !p.Role.IsValid() {
		return ErrInvalidRole
	}
	if p.Role == RolePlayer && p.Character == nil {
		return ErrPlayerWithoutCharacter
	}
	if p.Role == RoleGameMaster && p.Character != nil {
		return ErrGameMasterWithCharacter
	}
	return nil
}

// VisibleInventories returns the inventories of this participant's character
// that the viewer may see: everything for the owner and the game master,
// otherwise only inventories shared with everyone.
//
// TODO: this filtering is client-side only and is not a security boundary;
// the authority must enforce inventory visibility server-side.
func (p Participant) VisibleInventories(viewerID string, viewerRole Role) []Inventory {
	if p.Character == nil {
		return nil
	}
	if viewerID == p.ID || viewerRole == RoleGameMaster {
		return p.Character.Inventories
	}
	var visible []Inventory
	for _, inv := range p.Character.Inventories {
		if inv.Visibility == VisibilityEveryone {
			visible = append(visible, inv)
		}
	}
	return visible
}
