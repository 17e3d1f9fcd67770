package sync

import (
	"context"
	gosync "sync"

	"github.com/louisbranch/gametable/internal/cache"
	"github.com/louisbranch/gametable/internal/game"
	apperrors "github.com/louisbranch/gametable/internal/platform/errors"
	"github.com/louisbranch/gametable/internal/platform/watch"
)

// sessionKey is the persisted cache key for the canonical session copy.
const sessionKey = "session"

// Mode selects how State.Set adopts a candidate session.
type Mode int

const (
	// ModeFetch re-requests the canonical aggregate from the authority by
	// id and adopts only the authority's answer, never the candidate
	// verbatim. It guards against adopting a stale or partially
	// constructed caller-supplied object.
	ModeFetch Mode = iota
	// ModeFast adopts the candidate as-is, without a round-trip. It is
	// reserved for candidates that already are the authority's own push
	// payload, where a refetch would be redundant latency.
	ModeFast
)

// SessionFetcher re-requests the canonical session from the authority.
type SessionFetcher interface {
	Session(ctx context.Context, id string) (*game.Session, error)
}

// State holds the single authoritative session aggregate for this client,
// mirrored into the persisted cache. Observers only ever see fully-formed
// replacements; there is no partial state.
type State struct {
	cache   *cache.Cache
	fetcher SessionFetcher
	cell    *watch.Cell[*game.Session]

	// mu serializes adoptions so the cell and the persisted mirror are
	// updated together.
	mu gosync.Mutex
}

// NewState creates the canonical state cache.
func NewState(persisted *cache.Cache, fetcher SessionFetcher) *State {
	return &State{
		cache:   persisted,
		fetcher: fetcher,
		cell:    watch.NewCell[*game.Session](nil),
	}
}

// Init restores the persisted session copy. When none exists both the cell
// and the persisted store are left cleared and Init reports no session
// (nil, nil). A restored copy is re-validated through ModeFetch rather
// than trusted verbatim.
func (s *State) Init(ctx context.Context) (*game.Session, error) {
	var persisted game.Session
	if !s.cache.Get(ctx, sessionKey, &persisted) {
		s.Clear(ctx)
		return nil, nil
	}
	return s.Set(ctx, &persisted, ModeFetch)
}

// Set adopts a candidate session according to mode. On success the
// in-memory cell and the persisted mirror are updated together; if
// persistence fails the adoption still succeeds in-memory (best-effort
// durability).
//
// A ModeFetch round-trip in flight while a newer push lands is not
// cancelled, so a stale fetch can overwrite a fresher push if it resolves
// later. Requests are not generation-stamped; concurrent refresh is
// expected to be rare enough that the next push corrects the window.
func (s *State) Set(ctx context.Context, candidate *game.Session, mode Mode) (*game.Session, error) {
	if candidate == nil || candidate.ID == "" {
		return nil, apperrors.New(apperrors.CodeSessionMissing, "candidate session is required")
	}

	adopted := candidate
	if mode == ModeFetch {
		fetched, err := s.fetcher.Session(ctx, candidate.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeAuthorityUnavailable, "refetch session", err)
		}
		if err := fetched.Validate(); err != nil {
			return nil, err
		}
		adopted = fetched
	}

	s.mu.Lock()
	s.cell.Set(adopted)
	s.cache.Set(ctx, sessionKey, adopted, 0)
	s.mu.Unlock()
	return adopted, nil
}

// Clear empties both the in-memory cell and the persisted mirror.
func (s *State) Clear(ctx context.Context) {
	s.mu.Lock()
	s.cell.Set(nil)
	s.cache.Remove(ctx, sessionKey)
	s.mu.Unlock()
}

// Current returns the cached session, or nil when none is loaded.
func (s *State) Current() *game.Session {
	return s.cell.Get()
}

// Watch observes session replacements.
func (s *State) Watch() *watch.Sub[*game.Session] {
	return s.cell.Watch()
}
