// Package command defines the write-side contract of the client: every user
// mutation becomes a typed, timestamped, session-scoped command sent once,
// fire-and-forget, to the external authority. Commands are never applied
// locally; convergence happens only when the authority's broadcast comes
// back through the channel.
package command

import (
	"strings"
	"time"

	"github.com/louisbranch/gametable/internal/game"
	apperrors "github.com/louisbranch/gametable/internal/platform/errors"
	"github.com/louisbranch/gametable/internal/platform/id"
)

// Event names for each command variant (client to authority).
const (
	NameJoin              = "session.join"
	NameLeave             = "session.leave"
	NameRenameParticipant = "participant.rename"
	NameChangeAvatar      = "participant.avatar"
	NameAddBar            = "bar.add"
	NameEditBar           = "bar.edit"
	NameDeleteBar         = "bar.delete"
	NameAddStatus         = "status.add"
	NameEditStatus        = "status.edit"
	NameDeleteStatus      = "status.delete"
	NameAddInventory      = "inventory.add"
	NameUpdateInventory   = "inventory.update"
	NameDeleteInventory   = "inventory.delete"
	NameAddItem           = "item.add"
	NameEditItem          = "item.edit"
	NameDeleteItem        = "item.delete"
	NameRollDice          = "dice.roll"
)

var (
	// ErrEmptySessionID indicates a command without a session scope.
	ErrEmptySessionID = apperrors.New(apperrors.CodeCommandEmptySessionID, "command session id is required")
	// ErrEmptyParticipantID indicates a command without an acting participant.
	ErrEmptyParticipantID = apperrors.New(apperrors.CodeCommandEmptyParticipantID, "command participant id is required")
	// ErrEmptyTarget indicates a command missing its target identifier or label.
	ErrEmptyTarget = apperrors.New(apperrors.CodeCommandEmptyTarget, "command target is required")
	// ErrEmptyFormula indicates a dice roll without a formula.
	ErrEmptyFormula = apperrors.New(apperrors.CodeCommandEmptyFormula, "dice formula is required")
)

// Command is a one-way mutation intent addressed to the authority.
type Command interface {
	// EventName is the channel event the command is emitted under.
	EventName() string
	// Scope returns the session/participant envelope common to all commands.
	Scope() Envelope
}

// Envelope carries the fields every command shares. Commands never carry a
// full session aggregate. CommandID is generated client-side so the
// authority can attribute and deduplicate what it journals.
type Envelope struct {
	CommandID     string    `json:"commandId"`
	SessionID     string    `json:"sessionId"`
	ParticipantID string    `json:"participantId"`
	Timestamp     time.Time `json:"timestamp"`
}

// Scope implements Command for every embedding variant.
func (e Envelope) Scope() Envelope { return e }

// NewEnvelope builds a validated, timestamped envelope. clock and generateID
// default to the wall clock and the platform id generator when nil.
func NewEnvelope(sessionID, participantID string, clock func() time.Time, generateID func() (string, error)) (Envelope, error) {
	if clock == nil {
		clock = time.Now
	}
	if generateID == nil {
		generateID = id.NewID
	}
	if strings.TrimSpace(sessionID) == "" {
		return Envelope{}, ErrEmptySessionID
	}
	if strings.TrimSpace(participantID) == "" {
		return Envelope{}, ErrEmptyParticipantID
	}
	commandID, err := generateID()
	if err != nil {
		return Envelope{}, apperrors.Wrap(apperrors.CodeUnknown, "generate command id", err)
	}
	return Envelope{
		CommandID:     commandID,
		SessionID:     sessionID,
		ParticipantID: participantID,
		Timestamp:     clock().UTC(),
	}, nil
}

// Join announces the participant entering the session.
type Join struct {
	Envelope
}

func (Join) EventName() string { return NameJoin }

// Leave announces the participant leaving the session.
type Leave struct {
	Envelope
}

func (Leave) EventName() string { return NameLeave }

// RenameParticipant changes the acting participant's display name.
type RenameParticipant struct {
	Envelope
	Name string `json:"name"`
}

func (RenameParticipant) EventName() string { return NameRenameParticipant }

// NewRenameParticipant validates and builds a rename command.
func NewRenameParticipant(env Envelope, name string) (RenameParticipant, error) {
	if strings.TrimSpace(name) == "" {
		return RenameParticipant{}, ErrEmptyTarget
	}
	return RenameParticipant{Envelope: env, Name: name}, nil
}

// ChangeAvatar changes the acting participant's avatar.
type ChangeAvatar struct {
	Envelope
	AvatarURL string `json:"avatarUrl"`
}

func (ChangeAvatar) EventName() string { return NameChangeAvatar }

// AddBar creates a new gauge on a character.
type AddBar struct {
	Envelope
	Label   string `json:"label"`
	Current int    `json:"current"`
	Max     int    `json:"max"`
}

func (AddBar) EventName() string { return NameAddBar }

// NewAddBar validates and builds an add-bar command.
func NewAddBar(env Envelope, label string, current, max int) (AddBar, error) {
	if strings.TrimSpace(label) == "" {
		return AddBar{}, ErrEmptyTarget
	}
	return AddBar{Envelope: env, Label: label, Current: current, Max: max}, nil
}

// EditBar updates an existing gauge.
type EditBar struct {
	Envelope
	BarID   string `json:"barId"`
	Label   string `json:"label"`
	Current int    `json:"current"`
	Max     int    `json:"max"`
}

func (EditBar) EventName() string { return NameEditBar }

// NewEditBar validates and builds an edit-bar command.
func NewEditBar(env Envelope, barID, label string, current, max int) (EditBar, error) {
	if strings.TrimSpace(barID) == "" {
		return EditBar{}, ErrEmptyTarget
	}
	return EditBar{Envelope: env, BarID: barID, Label: label, Current: current, Max: max}, nil
}

// DeleteBar removes a gauge.
type DeleteBar struct {
	Envelope
	BarID string `json:"barId"`
}

func (DeleteBar) EventName() string { return NameDeleteBar }

// NewDeleteBar validates and builds a delete-bar command.
func NewDeleteBar(env Envelope, barID string) (DeleteBar, error) {
	if strings.TrimSpace(barID) == "" {
		return DeleteBar{}, ErrEmptyTarget
	}
	return DeleteBar{Envelope: env, BarID: barID}, nil
}

// AddStatus creates a status marker on a character.
type AddStatus struct {
	Envelope
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
}

func (AddStatus) EventName() string { return NameAddStatus }

// NewAddStatus validates and builds an add-status command.
func NewAddStatus(env Envelope, label, value string) (AddStatus, error) {
	if strings.TrimSpace(label) == "" {
		return AddStatus{}, ErrEmptyTarget
	}
	return AddStatus{Envelope: env, Label: label, Value: value}, nil
}

// EditStatus updates a status marker.
type EditStatus struct {
	Envelope
	StatusID string `json:"statusId"`
	Label    string `json:"label"`
	Value    string `json:"value,omitempty"`
}

func (EditStatus) EventName() string { return NameEditStatus }

// NewEditStatus validates and builds an edit-status command.
func NewEditStatus(env Envelope, statusID, label, value string) (EditStatus, error) {
	if strings.TrimSpace(statusID) == "" {
		return EditStatus{}, ErrEmptyTarget
	}
	return EditStatus{Envelope: env, StatusID: statusID, Label: label, Value: value}, nil
}

// DeleteStatus removes a status marker.
type DeleteStatus struct {
	Envelope
	StatusID string `json:"statusId"`
}

func (DeleteStatus) EventName() string { return NameDeleteStatus }

// NewDeleteStatus validates and builds a delete-status command.
func NewDeleteStatus(env Envelope, statusID string) (DeleteStatus, error) {
	if strings.TrimSpace(statusID) == "" {
		return DeleteStatus{}, ErrEmptyTarget
	}
	return DeleteStatus{Envelope: env, StatusID: statusID}, nil
}

// AddInventory creates a new inventory on a character.
type AddInventory struct {
	Envelope
	Label      string          `json:"label"`
	Visibility game.Visibility `json:"visibility"`
}

func (AddInventory) EventName() string { return NameAddInventory }

// NewAddInventory validates and builds an add-inventory command.
func NewAddInventory(env Envelope, label string, visibility game.Visibility) (AddInventory, error) {
	if strings.TrimSpace(label) == "" {
		return AddInventory{}, ErrEmptyTarget
	}
	return AddInventory{Envelope: env, Label: label, Visibility: visibility}, nil
}

// UpdateInventory updates an inventory's label or visibility.
type UpdateInventory struct {
	Envelope
	InventoryID string          `json:"inventoryId"`
	Label       string          `json:"label"`
	Visibility  game.Visibility `json:"visibility"`
}

func (UpdateInventory) EventName() string { return NameUpdateInventory }

// NewUpdateInventory validates and builds an update-inventory command.
func NewUpdateInventory(env Envelope, inventoryID, label string, visibility game.Visibility) (UpdateInventory, error) {
	if strings.TrimSpace(inventoryID) == "" {
		return UpdateInventory{}, ErrEmptyTarget
	}
	return UpdateInventory{Envelope: env, InventoryID: inventoryID, Label: label, Visibility: visibility}, nil
}

// DeleteInventory removes an inventory and its items.
type DeleteInventory struct {
	Envelope
	InventoryID string `json:"inventoryId"`
}

func (DeleteInventory) EventName() string { return NameDeleteInventory }

// NewDeleteInventory validates and builds a delete-inventory command.
func NewDeleteInventory(env Envelope, inventoryID string) (DeleteInventory, error) {
	if strings.TrimSpace(inventoryID) == "" {
		return DeleteInventory{}, ErrEmptyTarget
	}
	return DeleteInventory{Envelope: env, InventoryID: inventoryID}, nil
}

// AddItem creates an item inside an inventory.
type AddItem struct {
	Envelope
	InventoryID string `json:"inventoryId"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}

func (AddItem) EventName() string { return NameAddItem }

// NewAddItem validates and builds an add-item command.
func NewAddItem(env Envelope, inventoryID, label, description string, quantity int) (AddItem, error) {
	if strings.TrimSpace(inventoryID) == "" || strings.TrimSpace(label) == "" {
		return AddItem{}, ErrEmptyTarget
	}
	return AddItem{Envelope: env, InventoryID: inventoryID, Label: label, Description: description, Quantity: quantity}, nil
}

// EditItem updates an item inside an inventory.
type EditItem struct {
	Envelope
	InventoryID string `json:"inventoryId"`
	ItemID      string `json:"itemId"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}

func (EditItem) EventName() string { return NameEditItem }

// NewEditItem validates and builds an edit-item command.
func NewEditItem(env Envelope, inventoryID, itemID, label, description string, quantity int) (EditItem, error) {
	if strings.TrimSpace(inventoryID) == "" || strings.TrimSpace(itemID) == "" {
		return EditItem{}, ErrEmptyTarget
	}
	return EditItem{Envelope: env, InventoryID: inventoryID, ItemID: itemID, Label: label, Description: description, Quantity: quantity}, nil
}

// DeleteItem removes an item from an inventory.
type DeleteItem struct {
	Envelope
	InventoryID string `json:"inventoryId"`
	ItemID      string `json:"itemId"`
}

func (DeleteItem) EventName() string { return NameDeleteItem }

// NewDeleteItem validates and builds a delete-item command.
func NewDeleteItem(env Envelope, inventoryID, itemID string) (DeleteItem, error) {
	if strings.TrimSpace(inventoryID) == "" || strings.TrimSpace(itemID) == "" {
		return DeleteItem{}, ErrEmptyTarget
	}
	return DeleteItem{Envelope: env, InventoryID: inventoryID, ItemID: itemID}, nil
}

// RollDice asks the authority to resolve a dice roll.
type RollDice struct {
	Envelope
	Formula string `json:"formula"`
}

func (RollDice) EventName() string { return NameRollDice }

// NewRollDice validates and builds a dice roll command.
func NewRollDice(env Envelope, formula string) (RollDice, error) {
	if strings.TrimSpace(formula) == "" {
		return RollDice{}, ErrEmptyFormula
	}
	return RollDice{Envelope: env, Formula: formula}, nil
}
