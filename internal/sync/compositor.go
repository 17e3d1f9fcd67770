package sync

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/gametable/internal/game"
	"github.com/louisbranch/gametable/internal/game/command"
	apperrors "github.com/louisbranch/gametable/internal/platform/errors"
	"github.com/louisbranch/gametable/internal/platform/i18n"
)

// CommandEmitter sends a command event to the authority, fire-and-forget.
// The transport channel satisfies this.
type CommandEmitter interface {
	Emit(event string, payload any) error
}

// Current is the composed view of the session plus the participant the
// local client is acting as. It only exists when both halves are present
// and consistent.
type Current struct {
	Session     *game.Session
	Participant game.Participant
}

// Compositor derives the current-session view from the canonical state and
// the identity binding, and owns the join and logout flows.
type Compositor struct {
	state    *State
	identity *Identity
	events   *EventLog
	emitter  CommandEmitter
	catalog  *i18n.Catalog
	clock    func() time.Time
}

// NewCompositor wires the compositor over its collaborators. emitter may be
// nil when the client runs without a live channel; Join and Logout then
// skip their announcements.
func NewCompositor(state *State, identity *Identity, events *EventLog, emitter CommandEmitter, catalog *i18n.Catalog) *Compositor {
	return &Compositor{
		state:    state,
		identity: identity,
		events:   events,
		emitter:  emitter,
		catalog:  catalog,
		clock:    time.Now,
	}
}

// Init restores persisted state and validates the identity binding against
// it. When no session is persisted the client starts cold: no session, no
// identity, empty log. A stale identity binding cleared during validation
// leaves a warning in the event log so the user knows to pick a
// participant again.
func (c *Compositor) Init(ctx context.Context) error {
	sess, err := c.state.Init(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	cleared := c.identity.Init(ctx, sess)
	if c.events != nil {
		if err := c.events.Init(ctx, sess.ID); err != nil {
			// History is a nicety; the session itself is usable without it.
			log.Printf("compositor: journal replay failed: %v", err)
		}
		if cleared {
			c.events.Add(KindWarning, c.catalog.Format(i18n.KeyIdentityCleared, nil), 0)
		}
	}
	return nil
}

// Join announces the participant entering the session, best-effort. It is
// called when the channel comes up, initially and after every reconnect,
// so the authority learns this client is present; without a composed view
// there is nothing to announce.
func (c *Compositor) Join() {
	cur, err := c.Current()
	if err != nil || c.emitter == nil {
		return
	}
	env, err := command.NewEnvelope(cur.Session.ID, cur.Participant.ID, c.clock, nil)
	if err != nil {
		return
	}
	join := command.Join{Envelope: env}
	if err := c.emitter.Emit(join.EventName(), join); err != nil {
		log.Printf("compositor: join announcement failed: %v", err)
	}
}

// Current returns the composed view, or an error naming the missing half.
// Callers on code paths where a session is a precondition use this form;
// presentation code that merely adapts to absence uses CurrentOrNil.
func (c *Compositor) Current() (Current, error) {
	sess := c.state.Current()
	if sess == nil {
		return Current{}, apperrors.New(apperrors.CodeSessionMissing, "no session loaded")
	}
	participantID, ok := c.identity.ParticipantID()
	if !ok {
		return Current{}, apperrors.New(apperrors.CodeIdentityMissing, "no participant bound")
	}
	participant, ok := sess.FindParticipant(participantID)
	if !ok {
		return Current{}, apperrors.WithMetadata(apperrors.CodeParticipantNotFound,
			"bound participant not in session", map[string]string{"participant_id": participantID})
	}
	return Current{Session: sess, Participant: participant}, nil
}

// CurrentOrNil returns the composed view or nil when any half is missing.
func (c *Compositor) CurrentOrNil() *Current {
	cur, err := c.Current()
	if err != nil {
		return nil
	}
	return &cur
}

// AllowedToEdit reports whether the acting participant may edit the target
// participant's character: game masters edit anyone, players only
// themselves. Without a composed view nothing is editable.
func (c *Compositor) AllowedToEdit(targetID string) bool {
	cur, err := c.Current()
	if err != nil {
		return false
	}
	return cur.Participant.Role == game.RoleGameMaster || cur.Participant.ID == targetID
}

// Logout announces the leave to the authority, best-effort, then clears
// identity, state and the event log. Local teardown proceeds even when the
// announcement cannot be sent; the authority reconciles the absence on its
// own.
func (c *Compositor) Logout(ctx context.Context) {
	if cur, err := c.Current(); err == nil && c.emitter != nil {
		env, envErr := command.NewEnvelope(cur.Session.ID, cur.Participant.ID, c.clock, nil)
		if envErr == nil {
			leave := command.Leave{Envelope: env}
			if emitErr := c.emitter.Emit(leave.EventName(), leave); emitErr != nil {
				log.Printf("compositor: leave announcement failed: %v", emitErr)
			}
		}
	}

	c.identity.ClearParticipant(ctx)
	c.state.Clear(ctx)
	if c.events != nil {
		c.events.Clear()
	}
}
