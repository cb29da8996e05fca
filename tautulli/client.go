package tautulli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkopnsrc/plex-qbt-speed-limiter/plex"
)

// Client wraps the Tautulli API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Tautulli client
func NewClient(baseURL, apiKey string, logger zerolog.Logger) (*Client, error) {
	// Ensure base URL ends without slash
	baseURL = strings.TrimRight(baseURL, "/")

	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}

	// Test the connection
	if err := client.TestConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to Tautulli: %w", err)
	}

	return client, nil
}

// TestConnection tests the connection to Tautulli
func (c *Client) TestConnection() error {
	params := url.Values{
		"apikey": {c.apiKey},
		"cmd":    {"get_server_info"},
	}

	requestURL := fmt.Sprintf("%s/api/v2?%s", c.baseURL, params.Encode())
	c.logger.Debug().Str("url", requestURL).Msg("Testing Tautulli connection")

	resp, err := c.httpClient.Get(requestURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if response, ok := result["response"].(map[string]interface{}); ok {
		if res, ok := response["result"].(string); ok && res == "success" {
			return nil
		}
		if msg, ok := response["message"]; ok && msg != nil {
			return fmt.Errorf("%w: %v", ErrAPIFailure, msg)
		}
	}

	return fmt.Errorf("%w: %+v", ErrInvalidResponse, result)
}

// GetActivity retrieves the current playback activity from Tautulli
func (c *Client) GetActivity(ctx context.Context) (*Activity, error) {
	params := url.Values{
		"apikey": {c.apiKey},
		"cmd":    {"get_activity"},
	}

	requestURL := fmt.Sprintf("%s/api/v2?%s", c.baseURL, params.Encode())
	c.logger.Debug().Str("url", requestURL).Msg("Making Tautulli API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var activity ActivityResponse
	if err := json.NewDecoder(resp.Body).Decode(&activity); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if activity.Response.Result != "success" {
		if activity.Response.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrAPIFailure, activity.Response.Message)
		}
		return nil, ErrAPIFailure
	}

	c.logger.Debug().
		Int("streams", activity.Response.Data.Streams()).
		Msg("Retrieved activity from Tautulli")

	return &activity.Response.Data, nil
}

// ActiveSessions returns the current playback sessions in the shared
// session shape.
func (c *Client) ActiveSessions(ctx context.Context) ([]plex.Session, error) {
	activity, err := c.GetActivity(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make([]plex.Session, 0, len(activity.Sessions))
	for _, s := range activity.Sessions {
		sessions = append(sessions, plex.Session{
			User:             s.User,
			Title:            s.Title,
			GrandparentTitle: s.GrandparentTitle,
			ParentTitle:      s.ParentTitle,
			MediaType:        s.MediaType,
			Library:          s.LibraryName,
			Player:           s.Player,
			Product:          s.Product,
			Address:          s.IPAddress,
			Local:            s.IsLocal(),
			State:            s.State,
		})
	}

	return sessions, nil
}
