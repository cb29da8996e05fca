// Package plex provides a client for the Plex Media Server HTTP API,
// limited to the session endpoints this application needs.
package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to a Plex Media Server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Plex client and verifies the server is reachable.
func NewClient(baseURL, token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("plex URL is required")
	}
	if token == "" {
		return nil, fmt.Errorf("plex token is required")
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	// Test the connection
	if err := client.TestConnection(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to Plex: %w", err)
	}

	return client, nil
}

// doRequest performs a GET against the given path and decodes the XML response.
func (c *Client) doRequest(ctx context.Context, path string, out any) error {
	requestURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	return nil
}

// TestConnection verifies the server answers the identity endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	var container MediaContainer
	return c.doRequest(ctx, "/identity", &container)
}

// GetSessions retrieves the current playback sessions from /status/sessions.
func (c *Client) GetSessions(ctx context.Context) (*SessionList, error) {
	var container MediaContainer
	if err := c.doRequest(ctx, "/status/sessions", &container); err != nil {
		return nil, err
	}

	sessions := make([]Session, 0, len(container.Videos)+len(container.Tracks))
	for _, v := range container.Videos {
		sessions = append(sessions, v.toSession())
	}
	for _, t := range container.Tracks {
		sessions = append(sessions, t.toSession())
	}

	c.logger.Debug().
		Int("size", container.Size).
		Int("sessions", len(sessions)).
		Msg("Retrieved active sessions from Plex")

	return &SessionList{Count: container.Size, Sessions: sessions}, nil
}

// ActiveSessions returns the current playback sessions as a flat list.
func (c *Client) ActiveSessions(ctx context.Context) ([]Session, error) {
	list, err := c.GetSessions(ctx)
	if err != nil {
		return nil, err
	}
	return list.Sessions, nil
}
