// Package client wires the session client core: the persisted cache, the
// authority HTTP client, the realtime channel and the synchronization layer
// that keeps one participant's view convergent with the shared session.
package client

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/gametable/internal/authority"
	"github.com/louisbranch/gametable/internal/cache"
	"github.com/louisbranch/gametable/internal/cache/sqlite"
	"github.com/louisbranch/gametable/internal/game"
	"github.com/louisbranch/gametable/internal/platform/config"
	"github.com/louisbranch/gametable/internal/platform/i18n"
	"github.com/louisbranch/gametable/internal/sync"
	"github.com/louisbranch/gametable/internal/transport"
)

// Config holds the client command configuration.
type Config struct {
	// AuthorityURL is the authority's HTTP base URL for session fetches.
	AuthorityURL string `env:"GAMETABLE_AUTHORITY_URL" envDefault:"http://localhost:8080"`
	// ChannelURL is the websocket endpoint for realtime events.
	ChannelURL string `env:"GAMETABLE_CHANNEL_URL" envDefault:"ws://localhost:8080/ws"`
	// CachePath is the sqlite file backing the persisted cache.
	CachePath string `env:"GAMETABLE_CACHE_PATH" envDefault:"gametable.db"`
	// Locale selects the display message catalog.
	Locale string `env:"GAMETABLE_LOCALE" envDefault:"en-US"`
	// SessionID optionally pre-selects a session to load when no persisted
	// copy exists.
	SessionID string `env:"GAMETABLE_SESSION_ID"`
	// IdentityTTL bounds how long the participant binding stays valid.
	IdentityTTL time.Duration `env:"GAMETABLE_IDENTITY_TTL"`
}

// ParseConfig loads configuration from the environment and lets flags
// override it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.AuthorityURL, "authority-url", cfg.AuthorityURL, "authority HTTP base URL")
	fs.StringVar(&cfg.ChannelURL, "channel-url", cfg.ChannelURL, "realtime channel websocket URL")
	fs.StringVar(&cfg.CachePath, "cache-path", cfg.CachePath, "persisted cache sqlite path")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "display locale")
	fs.StringVar(&cfg.SessionID, "session-id", cfg.SessionID, "session to load on first run")
	fs.DurationVar(&cfg.IdentityTTL, "identity-ttl", cfg.IdentityTTL, "identity binding lifetime")
	if err := config.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the client core and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache store: %w", err)
	}
	defer store.Close()

	auth, err := authority.New(cfg.AuthorityURL)
	if err != nil {
		return fmt.Errorf("init authority client: %w", err)
	}

	persisted := cache.New(store)
	catalog := i18n.ForLocale(cfg.Locale)
	state := sync.NewState(persisted, auth)
	identity := sync.NewIdentity(persisted, cfg.IdentityTTL)
	events := sync.NewEventLog(auth)

	channel := transport.New(cfg.ChannelURL)
	compositor := sync.NewCompositor(state, identity, events, channel, catalog)

	if err := compositor.Init(ctx); err != nil {
		return fmt.Errorf("restore persisted state: %w", err)
	}
	if state.Current() == nil && cfg.SessionID != "" {
		if _, err := state.Set(ctx, &game.Session{ID: cfg.SessionID}, sync.ModeFetch); err != nil {
			return fmt.Errorf("load session %s: %w", cfg.SessionID, err)
		}
	}

	// Announce presence on every new connection, the first included, so the
	// authority re-learns this client after transparent reconnects.
	online := channel.WatchConnected()
	defer online.Close()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case up := <-online.C():
				if up {
					compositor.Join()
				}
			}
		}
	}()

	if err := channel.Connect(ctx); err != nil {
		// The channel reconnects on its own; a cold start without the
		// authority still serves the persisted copy.
		log.Printf("channel connect: %v", err)
	}
	defer channel.Disconnect()

	updates := channel.Listen(sync.EventSessionUpdated)
	defer updates.Close()

	left := identity.Left()
	defer left.Close()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-left.C():
				log.Printf("%s", catalog.Format(i18n.KeySessionLeft, nil))
			}
		}
	}()

	reconciler := sync.NewReconciler(state, identity, events, catalog)
	reconciler.Run(ctx, updates.C())
	return nil
}
