package sync

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/gametable/internal/cache"
	"github.com/louisbranch/gametable/internal/game"
)

// memStore is an in-memory cache.Store with injectable failures.
type memStore struct {
	entries map[string][]byte
	putErr  error
	getErr  error
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	payload, ok := m.entries[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return payload, nil
}

func (m *memStore) Put(_ context.Context, key string, value []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.entries = make(map[string][]byte)
	return nil
}

// fakeFetcher serves canned sessions keyed by id.
type fakeFetcher struct {
	sessions map[string]*game.Session
	err      error
	calls    int
}

func (f *fakeFetcher) Session(_ context.Context, id string) (*game.Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	sess, ok := f.sessions[id]
	if !ok {
		return nil, errors.New("unknown session")
	}
	return sess, nil
}

func sampleSession(version uint64) *game.Session {
	return &game.Session{
		ID:      "sess-1",
		Version: version,
		Name:    "Friday Night",
		Participants: []game.Participant{
			{ID: "gm-1", Name: "Morgan", Role: game.RoleGameMaster},
			{
				ID:        "pl-1",
				Name:      "Alex",
				Role:      game.RolePlayer,
				Character: &game.Character{},
			},
		},
		UpdatedAt: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC),
	}
}
