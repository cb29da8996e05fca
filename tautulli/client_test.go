package tautulli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverInfoJSON = `{"response": {"result": "success", "data": {"pms_name": "home", "pms_version": "1.41.0"}}}`

const activityJSON = `{
  "response": {
    "result": "success",
    "data": {
      "stream_count": "2",
      "sessions": [
        {
          "user": "alice",
          "player": "Living Room TV",
          "product": "Plex for Apple TV",
          "state": "playing",
          "title": "Pilot",
          "full_title": "Severance - Pilot",
          "grandparent_title": "Severance",
          "parent_title": "Season 1",
          "media_type": "episode",
          "library_name": "TV Shows",
          "ip_address": "192.168.1.50",
          "location": "lan"
        },
        {
          "user": "bob",
          "player": "Chrome",
          "product": "Plex Web",
          "state": "paused",
          "title": "Heat",
          "full_title": "Heat",
          "media_type": "movie",
          "library_name": "Movies",
          "ip_address": "203.0.113.9",
          "location": "wan"
        }
      ]
    }
  }
}`

func newTestServer(t *testing.T, activityBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Query().Get("cmd") {
		case "get_server_info":
			w.Write([]byte(serverInfoJSON))
		case "get_activity":
			w.Write([]byte(activityBody))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func TestNewClient(t *testing.T) {
	server := newTestServer(t, activityJSON)
	defer server.Close()

	client, err := NewClient(server.URL+"/", "test-key", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, server.URL, client.baseURL)
}

func TestNewClientBadKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"result": "error", "message": "Invalid apikey"}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "wrong-key", zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPIFailure)
	assert.Contains(t, err.Error(), "Invalid apikey")
}

func TestGetActivity(t *testing.T) {
	server := newTestServer(t, activityJSON)
	defer server.Close()

	client, err := NewClient(server.URL, "test-key", zerolog.Nop())
	require.NoError(t, err)

	activity, err := client.GetActivity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, activity.Streams())
	require.Len(t, activity.Sessions, 2)
	assert.Equal(t, "alice", activity.Sessions[0].User)
	assert.True(t, activity.Sessions[0].IsLocal())
	assert.False(t, activity.Sessions[1].IsLocal())
}

func TestGetActivityNumericStreamCount(t *testing.T) {
	const numericJSON = `{"response": {"result": "success", "data": {"stream_count": 3, "sessions": []}}}`

	server := newTestServer(t, numericJSON)
	defer server.Close()

	client, err := NewClient(server.URL, "test-key", zerolog.Nop())
	require.NoError(t, err)

	activity, err := client.GetActivity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, activity.Streams())
}

func TestGetActivityFailure(t *testing.T) {
	const failureJSON = `{"response": {"result": "error", "message": "Unable to retrieve data"}}`

	server := newTestServer(t, failureJSON)
	defer server.Close()

	client, err := NewClient(server.URL, "test-key", zerolog.Nop())
	require.NoError(t, err)

	_, err = client.GetActivity(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPIFailure)
}

func TestActiveSessions(t *testing.T) {
	server := newTestServer(t, activityJSON)
	defer server.Close()

	client, err := NewClient(server.URL, "test-key", zerolog.Nop())
	require.NoError(t, err)

	sessions, err := client.ActiveSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	episode := sessions[0]
	assert.Equal(t, "alice", episode.User)
	assert.Equal(t, "Severance - Season 1 - Pilot", episode.DisplayTitle())
	assert.Equal(t, "TV Shows", episode.Library)
	assert.Equal(t, "Living Room TV", episode.Player)
	assert.True(t, episode.Local)

	movie := sessions[1]
	assert.Equal(t, "bob", movie.User)
	assert.Equal(t, "Heat", movie.DisplayTitle())
	assert.False(t, movie.Local)
	assert.Equal(t, "paused", movie.State)
}

func TestStreamsFallsBackToSessions(t *testing.T) {
	activity := Activity{Sessions: []ActiveStream{{User: "alice"}}}
	assert.Equal(t, 1, activity.Streams())
}
