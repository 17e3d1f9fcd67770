package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/louisbranch/gametable/internal/cache"
	"github.com/louisbranch/gametable/internal/game"
	"github.com/louisbranch/gametable/internal/game/command"
	apperrors "github.com/louisbranch/gametable/internal/platform/errors"
	"github.com/louisbranch/gametable/internal/platform/i18n"
)

// recordingEmitter captures emitted events; fail makes every Emit error.
type recordingEmitter struct {
	events   []string
	payloads []any
	fail     bool
}

func (r *recordingEmitter) Emit(event string, payload any) error {
	if r.fail {
		return errors.New("channel closed")
	}
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
	return nil
}

func newTestCompositor(t *testing.T, emitter CommandEmitter) (*Compositor, *State, *Identity, *EventLog) {
	t.Helper()
	persisted := cache.New(newMemStore())
	sess := sampleSession(1)
	state := NewState(persisted, &fakeFetcher{sessions: map[string]*game.Session{sess.ID: sess}})
	identity := NewIdentity(persisted, 0)
	events := NewEventLog(nil)
	return NewCompositor(state, identity, events, emitter, i18n.ForLocale("en-US")), state, identity, events
}

func TestCompositorCurrentRequiresBothHalves(t *testing.T) {
	ctx := context.Background()
	comp, state, identity, _ := newTestCompositor(t, nil)

	if _, err := comp.Current(); apperrors.CodeOf(err) != apperrors.CodeSessionMissing {
		t.Fatalf("Current() error = %v, want session missing", err)
	}
	if comp.CurrentOrNil() != nil {
		t.Fatal("CurrentOrNil() should be nil without a session")
	}

	if _, err := state.Set(ctx, sampleSession(1), ModeFast); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := comp.Current(); apperrors.CodeOf(err) != apperrors.CodeIdentityMissing {
		t.Fatalf("Current() error = %v, want identity missing", err)
	}

	identity.SetParticipant(ctx, "pl-1")
	cur, err := comp.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if cur.Participant.ID != "pl-1" || cur.Session.ID != "sess-1" {
		t.Fatalf("Current() = %+v, want pl-1 in sess-1", cur)
	}
}

func TestCompositorCurrentWithRemovedParticipant(t *testing.T) {
	ctx := context.Background()
	comp, state, identity, _ := newTestCompositor(t, nil)

	if _, err := state.Set(ctx, sampleSession(1), ModeFast); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	identity.SetParticipant(ctx, "ghost")

	if _, err := comp.Current(); apperrors.CodeOf(err) != apperrors.CodeParticipantNotFound {
		t.Fatalf("Current() error = %v, want participant not found", err)
	}
	if comp.CurrentOrNil() != nil {
		t.Fatal("CurrentOrNil() should be nil for a removed participant")
	}
}

func TestCompositorInitColdStart(t *testing.T) {
	comp, state, identity, _ := newTestCompositor(t, nil)

	if err := comp.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if state.Current() != nil {
		t.Fatal("cold Init should leave no session")
	}
	if _, ok := identity.ParticipantID(); ok {
		t.Fatal("cold Init should leave identity unbound")
	}
}

func TestCompositorInitRestoresSessionAndIdentity(t *testing.T) {
	ctx := context.Background()
	persisted := cache.New(newMemStore())
	sess := sampleSession(5)
	persisted.Set(ctx, sessionKey, sess, 0)
	persisted.Set(ctx, identityKey, "pl-1", DefaultIdentityTTL)

	state := NewState(persisted, &fakeFetcher{sessions: map[string]*game.Session{sess.ID: sess}})
	identity := NewIdentity(persisted, 0)
	comp := NewCompositor(state, identity, NewEventLog(&fakeEventFetcher{}), nil, i18n.ForLocale("en-US"))

	if err := comp.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cur, err := comp.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if cur.Participant.ID != "pl-1" {
		t.Fatalf("Current().Participant.ID = %q, want pl-1", cur.Participant.ID)
	}
}

func TestCompositorInitWarnsOnStaleBinding(t *testing.T) {
	ctx := context.Background()
	persisted := cache.New(newMemStore())
	sess := sampleSession(2)
	persisted.Set(ctx, sessionKey, sess, 0)
	persisted.Set(ctx, identityKey, "gone-participant", DefaultIdentityTTL)

	state := NewState(persisted, &fakeFetcher{sessions: map[string]*game.Session{sess.ID: sess}})
	identity := NewIdentity(persisted, 0)
	events := NewEventLog(&fakeEventFetcher{})
	comp := NewCompositor(state, identity, events, nil, i18n.ForLocale("en-US"))

	if err := comp.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	got := events.Events()
	if len(got) != 1 || got[0].Kind != KindWarning {
		t.Fatalf("Events() = %+v, want one warning about the cleared binding", got)
	}
	if got[0].TTL != 0 {
		t.Fatal("cleared-binding warning should stay until the user acts")
	}
}

func TestCompositorJoinAnnouncesEntry(t *testing.T) {
	ctx := context.Background()
	emitter := &recordingEmitter{}
	comp, state, identity, _ := newTestCompositor(t, emitter)
	if _, err := state.Set(ctx, sampleSession(1), ModeFast); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	identity.SetParticipant(ctx, "pl-1")

	comp.Join()

	if len(emitter.events) != 1 || emitter.events[0] != command.NameJoin {
		t.Fatalf("emitted events = %v, want one %q", emitter.events, command.NameJoin)
	}
	join, ok := emitter.payloads[0].(command.Join)
	if !ok {
		t.Fatalf("payload = %T, want command.Join", emitter.payloads[0])
	}
	if join.SessionID != "sess-1" || join.ParticipantID != "pl-1" {
		t.Fatalf("join scope = %+v, want sess-1/pl-1", join.Envelope)
	}
}

func TestCompositorJoinWithoutViewIsQuiet(t *testing.T) {
	emitter := &recordingEmitter{}
	comp, _, _, _ := newTestCompositor(t, emitter)

	comp.Join()
	if len(emitter.events) != 0 {
		t.Fatalf("emitted events = %v, want none without a composed view", emitter.events)
	}
}

func TestCompositorJoinSurvivesEmitFailure(t *testing.T) {
	ctx := context.Background()
	comp, state, identity, _ := newTestCompositor(t, &recordingEmitter{fail: true})
	if _, err := state.Set(ctx, sampleSession(1), ModeFast); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	identity.SetParticipant(ctx, "pl-1")

	comp.Join()
	if got := state.Current(); got == nil || got.Version != 1 {
		t.Fatalf("Current() = %+v, want state untouched by a failed announcement", got)
	}
}

func TestCompositorAllowedToEdit(t *testing.T) {
	ctx := context.Background()
	comp, state, identity, _ := newTestCompositor(t, nil)
	if _, err := state.Set(ctx, sampleSession(1), ModeFast); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	tests := []struct {
		name   string
		actor  string
		target string
		want   bool
	}{
		{name: "player edits self", actor: "pl-1", target: "pl-1", want: true},
		{name: "player edits other", actor: "pl-1", target: "gm-1", want: false},
		{name: "game master edits anyone", actor: "gm-1", target: "pl-1", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity.SetParticipant(ctx, tt.actor)
			if got := comp.AllowedToEdit(tt.target); got != tt.want {
				t.Fatalf("AllowedToEdit(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}

	identity.ClearParticipant(ctx)
	if comp.AllowedToEdit("pl-1") {
		t.Fatal("AllowedToEdit should be false without a bound identity")
	}
}

func TestCompositorLogoutEmitsLeaveAndClears(t *testing.T) {
	ctx := context.Background()
	emitter := &recordingEmitter{}
	comp, state, identity, events := newTestCompositor(t, emitter)
	if _, err := state.Set(ctx, sampleSession(1), ModeFast); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	identity.SetParticipant(ctx, "pl-1")
	events.Add(KindInfo, "joined", 0)

	comp.Logout(ctx)

	if len(emitter.events) != 1 || emitter.events[0] != command.NameLeave {
		t.Fatalf("emitted events = %v, want one %q", emitter.events, command.NameLeave)
	}
	leave, ok := emitter.payloads[0].(command.Leave)
	if !ok {
		t.Fatalf("payload = %T, want command.Leave", emitter.payloads[0])
	}
	if leave.SessionID != "sess-1" || leave.ParticipantID != "pl-1" {
		t.Fatalf("leave scope = %+v, want sess-1/pl-1", leave.Envelope)
	}

	if state.Current() != nil {
		t.Fatal("state should be cleared after logout")
	}
	if _, ok := identity.ParticipantID(); ok {
		t.Fatal("identity should be unbound after logout")
	}
	if len(events.Events()) != 0 {
		t.Fatal("event log should be empty after logout")
	}
}

func TestCompositorLogoutSurvivesEmitFailure(t *testing.T) {
	ctx := context.Background()
	comp, state, identity, _ := newTestCompositor(t, &recordingEmitter{fail: true})
	if _, err := state.Set(ctx, sampleSession(1), ModeFast); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	identity.SetParticipant(ctx, "pl-1")

	comp.Logout(ctx)
	if state.Current() != nil {
		t.Fatal("local teardown must proceed despite a failed leave announcement")
	}
}

func TestCompositorLogoutWithoutSessionIsQuiet(t *testing.T) {
	emitter := &recordingEmitter{}
	comp, _, _, _ := newTestCompositor(t, emitter)

	comp.Logout(context.Background())
	if len(emitter.events) != 0 {
		t.Fatalf("emitted events = %v, want none without a composed view", emitter.events)
	}
}

// Leave payloads must serialize with the shared envelope fields so the
// authority can attribute the departure.
func TestLeaveCommandWireShape(t *testing.T) {
	env, err := command.NewEnvelope("sess-1", "pl-1", nil, nil)
	if err != nil {
		t.Fatalf("NewEnvelope() error = %v", err)
	}
	raw, err := json.Marshal(command.Leave{Envelope: env})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["sessionId"] != "sess-1" || decoded["participantId"] != "pl-1" {
		t.Fatalf("wire payload = %v, want sessionId/participantId set", decoded)
	}
	if decoded["commandId"] == "" {
		t.Fatal("wire payload missing commandId")
	}
}
