// Package errors provides structured error handling for the client core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Session errors
	CodeSessionMissing      Code = "SESSION_MISSING"
	CodeSessionEmptyID      Code = "SESSION_EMPTY_ID"
	CodeSessionEmptyName    Code = "SESSION_EMPTY_NAME"
	CodeSessionDuplicateIDs Code = "SESSION_DUPLICATE_PARTICIPANT_IDS"

	// Identity errors
	CodeIdentityMissing Code = "IDENTITY_MISSING"

	// Participant errors
	CodeParticipantNotFound     Code = "PARTICIPANT_NOT_FOUND"
	CodeParticipantEmptyID      Code = "PARTICIPANT_EMPTY_ID"
	CodeParticipantEmptyName    Code = "PARTICIPANT_EMPTY_NAME"
	CodeParticipantInvalidRole  Code = "PARTICIPANT_INVALID_ROLE"
	CodeParticipantNoCharacter  Code = "PARTICIPANT_NO_CHARACTER"
	CodeParticipantHasCharacter Code = "PARTICIPANT_HAS_CHARACTER"

	// Command errors
	CodeCommandEmptySessionID     Code = "COMMAND_EMPTY_SESSION_ID"
	CodeCommandEmptyParticipantID Code = "COMMAND_EMPTY_PARTICIPANT_ID"
	CodeCommandEmptyTarget        Code = "COMMAND_EMPTY_TARGET"
	CodeCommandEmptyFormula       Code = "COMMAND_EMPTY_FORMULA"

	// Authority errors
	CodeNotFound             Code = "NOT_FOUND"
	CodeAuthorityUnavailable Code = "AUTHORITY_UNAVAILABLE"
)
