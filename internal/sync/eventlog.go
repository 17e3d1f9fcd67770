package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/louisbranch/gametable/internal/game/event"
	apperrors "github.com/louisbranch/gametable/internal/platform/errors"
	"github.com/louisbranch/gametable/internal/platform/watch"
)

// Kind classifies a display event for presentation.
type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// DisplayEvent is one entry of the on-screen event log. Entries are
// identified by pointer: two entries with identical fields are still
// distinct log lines.
type DisplayEvent struct {
	Kind      Kind
	Message   string
	Timestamp time.Time
	// TTL bounds how long the entry stays in the log; zero keeps it until
	// removed or cleared.
	TTL time.Duration
}

// EventFetcher loads the authority's journal for a session.
type EventFetcher interface {
	Events(ctx context.Context, sessionID string) ([]event.GameEvent, error)
}

// EventLog keeps the ordered display event list. Newest entries append at
// the end; TTL-bearing entries expire on their own timer.
type EventLog struct {
	clock   func() time.Time
	fetcher EventFetcher

	mu     gosync.Mutex
	events []*DisplayEvent
	timers map[*DisplayEvent]*time.Timer
	cell   *watch.Cell[[]*DisplayEvent]
}

// NewEventLog creates an empty log. fetcher may be nil when historical
// journal replay is not needed.
func NewEventLog(fetcher EventFetcher) *EventLog {
	return NewEventLogWithClock(fetcher, time.Now)
}

// NewEventLogWithClock creates a log with an injected clock for tests.
func NewEventLogWithClock(fetcher EventFetcher, clock func() time.Time) *EventLog {
	if clock == nil {
		clock = time.Now
	}
	return &EventLog{
		clock:   clock,
		fetcher: fetcher,
		timers:  make(map[*DisplayEvent]*time.Timer),
		cell:    watch.NewCell[[]*DisplayEvent](nil),
	}
}

// Init replaces the log with the authority's journal for the session,
// preserving the journal's order. Replayed entries carry no TTL; they are
// history, not notifications.
func (l *EventLog) Init(ctx context.Context, sessionID string) error {
	if l.fetcher == nil {
		return nil
	}
	journal, err := l.fetcher.Events(ctx, sessionID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeAuthorityUnavailable, "load session journal", err)
	}

	l.mu.Lock()
	l.stopTimersLocked()
	l.events = l.events[:0]
	for _, ge := range journal {
		l.events = append(l.events, &DisplayEvent{
			Kind:      KindInfo,
			Message:   ge.Message,
			Timestamp: ge.Timestamp,
		})
	}
	l.publishLocked()
	l.mu.Unlock()
	return nil
}

// Add appends a display event and returns it so callers can Remove it
// early. A positive ttl schedules automatic removal.
func (l *EventLog) Add(kind Kind, message string, ttl time.Duration) *DisplayEvent {
	entry := &DisplayEvent{
		Kind:      kind,
		Message:   message,
		Timestamp: l.clock().UTC(),
		TTL:       ttl,
	}

	l.mu.Lock()
	l.events = append(l.events, entry)
	if ttl > 0 {
		l.timers[entry] = time.AfterFunc(ttl, func() { l.Remove(entry) })
	}
	l.publishLocked()
	l.mu.Unlock()
	return entry
}

// Remove deletes the entry by identity and cancels its expiry timer.
// Removing an entry that already expired is a no-op.
func (l *EventLog) Remove(entry *DisplayEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if timer, ok := l.timers[entry]; ok {
		timer.Stop()
		delete(l.timers, entry)
	}
	for i, e := range l.events {
		if e == entry {
			l.events = append(l.events[:i], l.events[i+1:]...)
			l.publishLocked()
			return
		}
	}
}

// Clear drops every entry and cancels all timers.
func (l *EventLog) Clear() {
	l.mu.Lock()
	l.stopTimersLocked()
	l.events = l.events[:0]
	l.publishLocked()
	l.mu.Unlock()
}

// Events returns a snapshot of the current log, oldest first.
func (l *EventLog) Events() []*DisplayEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := make([]*DisplayEvent, len(l.events))
	copy(snapshot, l.events)
	return snapshot
}

// Watch observes log replacements. Each notification carries a full
// snapshot of the log.
func (l *EventLog) Watch() *watch.Sub[[]*DisplayEvent] {
	return l.cell.Watch()
}

func (l *EventLog) publishLocked() {
	snapshot := make([]*DisplayEvent, len(l.events))
	copy(snapshot, l.events)
	l.cell.Set(snapshot)
}

func (l *EventLog) stopTimersLocked() {
	for entry, timer := range l.timers {
		timer.Stop()
		delete(l.timers, entry)
	}
}
