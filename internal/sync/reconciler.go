package sync

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/louisbranch/gametable/internal/game"
	"github.com/louisbranch/gametable/internal/platform/i18n"
)

// EventSessionUpdated is the channel event the authority broadcasts after
// every accepted mutation.
const EventSessionUpdated = "session.updated"

// updateNoticeTTL bounds how long an update attribution stays in the
// display log.
const updateNoticeTTL = 8 * time.Second

// UpdatePush is the broadcast payload: the full replacement aggregate plus
// the participant whose command caused it.
type UpdatePush struct {
	Session   *game.Session    `json:"session"`
	ChangedBy game.Participant `json:"changedBy"`
}

// Reconciler folds authority broadcasts into local state. Each push
// replaces the session wholesale and leaves an attributed notice in the
// event log; the last broadcast applied wins.
type Reconciler struct {
	state    *State
	identity *Identity
	events   *EventLog
	catalog  *i18n.Catalog
}

// NewReconciler wires the reconciler over its collaborators.
func NewReconciler(state *State, identity *Identity, events *EventLog, catalog *i18n.Catalog) *Reconciler {
	return &Reconciler{
		state:    state,
		identity: identity,
		events:   events,
		catalog:  catalog,
	}
}

// Run consumes pushes until the channel closes or ctx is cancelled.
// There is no other teardown path: the reconciler lives as long as its
// subscription.
func (r *Reconciler) Run(ctx context.Context, pushes <-chan json.RawMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-pushes:
			if !ok {
				return
			}
			r.handle(ctx, raw)
		}
	}
}

// handle applies one broadcast. The attribution notice is derived from the
// identity bound before the replacement: the push may rename or remove the
// local participant, and the notice must describe who acted, not who the
// client becomes afterwards.
func (r *Reconciler) handle(ctx context.Context, raw json.RawMessage) {
	var push UpdatePush
	if err := json.Unmarshal(raw, &push); err != nil {
		log.Printf("reconciler: malformed push, skipping: %v", err)
		return
	}
	if push.Session == nil {
		log.Printf("reconciler: push without session, skipping")
		return
	}

	localID, bound := r.identity.ParticipantID()
	if r.events != nil {
		message := r.catalog.Format(i18n.KeySessionUpdatedOther, map[string]string{"Name": push.ChangedBy.Name})
		if bound && localID == push.ChangedBy.ID {
			message = r.catalog.Format(i18n.KeySessionUpdatedSelf, nil)
		}
		r.events.Add(KindInfo, message, updateNoticeTTL)
	}

	if _, err := r.state.Set(ctx, push.Session, ModeFast); err != nil {
		log.Printf("reconciler: push rejected: %v", err)
	}
}
