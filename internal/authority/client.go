// Package authority provides thin HTTP fetch wrappers for the external
// session authority. The authority owns every mutation; this client only
// reads canonical state and history from it.
package authority

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/louisbranch/gametable/internal/game"
	"github.com/louisbranch/gametable/internal/game/event"
	apperrors "github.com/louisbranch/gametable/internal/platform/errors"
)

const defaultTimeout = 10 * time.Second

// Client fetches canonical session state over plain HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client for the authority at baseURL.
func New(baseURL string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse authority url: %w", err)
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// NewWithHTTPClient creates a client with an injected http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) (*Client, error) {
	client, err := New(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		client.http = httpClient
	}
	return client, nil
}

// Session fetches the canonical session aggregate by id.
func (c *Client) Session(ctx context.Context, id string) (*game.Session, error) {
	var session game.Session
	if err := c.getJSON(ctx, c.base.JoinPath("sessions", id).String(), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Events fetches the session's historical events in server order.
func (c *Client) Events(ctx context.Context, sessionID string) ([]event.GameEvent, error) {
	var events []event.GameEvent
	if err := c.getJSON(ctx, c.base.JoinPath("sessions", sessionID, "events").String(), &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeAuthorityUnavailable, "authority request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.New(apperrors.CodeNotFound, "authority record not found")
	case resp.StatusCode != http.StatusOK:
		return apperrors.New(apperrors.CodeAuthorityUnavailable,
			fmt.Sprintf("authority returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.CodeAuthorityUnavailable, "decode authority response", err)
	}
	return nil
}
