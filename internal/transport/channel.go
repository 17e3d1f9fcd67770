// Package transport provides the persistent, bidirectional channel between
// the client and the session authority.
//
// Delivery semantics are at-most-once in both directions: emissions while
// the channel is down are dropped, and events broadcast during a
// reconnection gap are not replayed.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"github.com/louisbranch/gametable/internal/platform/watch"
)

// envelope is the wire format for every channel message, in both directions.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Channel is a reconnectable named-event channel over a websocket.
type Channel struct {
	url    string
	dialer *websocket.Dialer

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closing   bool
	subs      map[string][]*Subscription

	online *watch.Cell[bool]

	writeMu sync.Mutex
}

// New creates a channel that will dial the given websocket URL.
func New(url string) *Channel {
	return &Channel{
		url:    url,
		dialer: websocket.DefaultDialer,
		subs:   make(map[string][]*Subscription),
		online: watch.NewCell(false),
	}
}

// Connect dials the authority and starts the read loop. Calling Connect on
// an already-connected channel is a no-op.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.closing = false
	c.mu.Unlock()

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial channel: %w", err)
	}

	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	c.online.Set(true)

	go c.readLoop(conn)
	return nil
}

// Disconnect closes the connection. Calling Disconnect on an
// already-disconnected channel is a no-op. Subscriptions stay registered
// and resume delivery after a later Connect.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	c.closing = true
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = false
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()
	c.online.Set(false)
}

// Connected reports whether the channel currently holds a live connection.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// WatchConnected observes connectivity transitions: true after each
// successful dial, including transparent reconnects, false after each
// loss. Callers use it to repeat per-connection announcements the
// authority expects on every new connection.
func (c *Channel) WatchConnected() *watch.Sub[bool] {
	return c.online.Watch()
}

// Emit sends a named event, fire-and-forget. If the channel is down the
// emission is dropped and logged; there is no acknowledgement and no retry.
// The returned error covers only payload encoding.
func (c *Channel) Emit(event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	message, err := json.Marshal(envelope{Event: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", event, err)
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		log.Printf("channel: dropped %s emission, not connected", event)
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
		log.Printf("channel: dropped %s emission: %v", event, err)
	}
	return nil
}

// Listen subscribes to every future event of the given name. Events
// broadcast before the subscription are not replayed. Each subscriber
// receives matching events independently, in delivery order, through an
// unbounded queue so a slow consumer never blocks the read loop.
func (c *Channel) Listen(event string) *Subscription {
	sub := newSubscription(c, event)
	c.mu.Lock()
	c.subs[event] = append(c.subs[event], sub)
	c.mu.Unlock()
	return sub
}

func (c *Channel) unsubscribe(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.subs[sub.event]
	for i, candidate := range list {
		if candidate == sub {
			c.subs[sub.event] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

func (c *Channel) dispatch(event string, payload json.RawMessage) {
	c.mu.Lock()
	list := append([]*Subscription(nil), c.subs[event]...)
	c.mu.Unlock()
	for _, sub := range list {
		sub.push(payload)
	}
}

// readLoop consumes the connection until it fails, then reconnects with
// exponential backoff unless the channel is being closed. Reconnection is
// transparent to subscribers.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closing := c.closing
			c.connected = false
			c.conn = nil
			c.mu.Unlock()
			if closing {
				return
			}
			c.online.Set(false)
			log.Printf("channel: connection lost, reconnecting: %v", err)
			next, ok := c.reconnect()
			if !ok {
				return
			}
			conn = next
			continue
		}

		var env envelope
		if err := json.Unmarshal(message, &env); err != nil {
			log.Printf("channel: malformed message: %v", err)
			continue
		}
		if env.Event == "" {
			continue
		}
		c.dispatch(env.Event, env.Payload)
	}
}

// reconnect redials until it succeeds or Disconnect is called.
func (c *Channel) reconnect() (*websocket.Conn, bool) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 30 * time.Second

	for {
		time.Sleep(policy.NextBackOff())

		c.mu.Lock()
		closing := c.closing
		c.mu.Unlock()
		if closing {
			return nil, false
		}

		conn, _, err := c.dialer.Dial(c.url, nil)
		if err != nil {
			log.Printf("channel: reconnect failed: %v", err)
			continue
		}

		c.mu.Lock()
		if c.closing {
			c.mu.Unlock()
			_ = conn.Close()
			return nil, false
		}
		c.conn = conn
		c.connected = true
		c.mu.Unlock()
		c.online.Set(true)
		log.Printf("channel: reconnected")
		return conn, true
	}
}

// Subscription is one listener's lazy, unbounded stream of a named event.
type Subscription struct {
	channel *Channel
	event   string

	mu    sync.Mutex
	queue []json.RawMessage

	wake chan struct{}
	done chan struct{}
	out  chan json.RawMessage
	once sync.Once
}

func newSubscription(channel *Channel, event string) *Subscription {
	sub := &Subscription{
		channel: channel,
		event:   event,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		out:     make(chan json.RawMessage),
	}
	go sub.pump()
	return sub
}

// C returns the channel delivering event payloads in FIFO order.
// It is closed after Close.
func (s *Subscription) C() <-chan json.RawMessage {
	return s.out
}

// Close detaches the subscription; undelivered payloads are dropped.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.channel.unsubscribe(s)
		close(s.done)
	})
}

func (s *Subscription) push(payload json.RawMessage) {
	s.mu.Lock()
	s.queue = append(s.queue, payload)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				close(s.out)
				return
			}
		}
		head := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- head:
		case <-s.done:
			close(s.out)
			return
		}
	}
}
