package sync

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/gametable/internal/cache"
	"github.com/louisbranch/gametable/internal/game"
	"github.com/louisbranch/gametable/internal/platform/watch"
)

// identityKey is the persisted cache key for the identity binding.
const identityKey = "identity"

// DefaultIdentityTTL bounds how long a persisted identity binding stays
// valid without a successful re-validation.
const DefaultIdentityTTL = 12 * time.Hour

// Identity remembers which participant the local client is acting as.
// The binding is persisted with a TTL; once expired it reads as absent and
// derivation fails closed rather than picking a default participant.
type Identity struct {
	cache *cache.Cache
	ttl   time.Duration
	cell  *watch.Cell[string]
	left  *watch.Cell[time.Time]
}

// NewIdentity creates an identity cache persisting bindings with ttl.
// A non-positive ttl falls back to DefaultIdentityTTL.
func NewIdentity(persisted *cache.Cache, ttl time.Duration) *Identity {
	if ttl <= 0 {
		ttl = DefaultIdentityTTL
	}
	return &Identity{
		cache: persisted,
		ttl:   ttl,
		cell:  watch.NewCell(""),
		left:  watch.NewCell(time.Time{}),
	}
}

// Init restores the persisted binding and validates it against a freshly
// loaded session. An absent binding leaves identity unset. A binding whose
// participant no longer exists is cleared with a warning: a stale binding
// after a participant removal is an expected occurrence, not a failure.
// Init reports whether a stale binding was cleared so callers can surface
// the recovery to the user.
func (i *Identity) Init(ctx context.Context, sess *game.Session) bool {
	var participantID string
	if !i.cache.Get(ctx, identityKey, &participantID) {
		return false
	}
	if _, ok := sess.FindParticipant(participantID); !ok {
		log.Printf("identity: participant %s no longer in session, clearing binding", participantID)
		i.cache.Remove(ctx, identityKey)
		i.cell.Set("")
		return true
	}
	// Successful validation refreshes the TTL.
	i.cache.Set(ctx, identityKey, participantID, i.ttl)
	i.cell.Set(participantID)
	return false
}

// SetParticipant binds the local client to the participant id and persists
// the binding with the configured TTL.
func (i *Identity) SetParticipant(ctx context.Context, participantID string) {
	i.cell.Set(participantID)
	i.cache.Set(ctx, identityKey, participantID, i.ttl)
}

// ClearParticipant unbinds the identity, removes the persisted binding and
// notifies Left subscribers. Navigation back to the entry point is a
// subscriber concern, not handled here.
func (i *Identity) ClearParticipant(ctx context.Context) {
	i.cell.Set("")
	i.cache.Remove(ctx, identityKey)
	i.left.Set(time.Now().UTC())
}

// ParticipantID returns the bound participant id, if any.
func (i *Identity) ParticipantID() (string, bool) {
	id := i.cell.Get()
	return id, id != ""
}

// Watch observes identity replacements (empty string means unbound).
func (i *Identity) Watch() *watch.Sub[string] {
	return i.cell.Watch()
}

// Left observes identity-loss notifications.
func (i *Identity) Left() *watch.Sub[time.Time] {
	return i.left.Watch()
}
