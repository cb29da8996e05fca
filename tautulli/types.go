package tautulli

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ActivityResponse represents the response from the get_activity API
type ActivityResponse struct {
	Response Response `json:"response"`
}

// Response contains the actual data and metadata
type Response struct {
	Result  string   `json:"result"`
	Message string   `json:"message"`
	Data    Activity `json:"data"`
}

// Activity contains the current playback activity
type Activity struct {
	StreamCount json.RawMessage `json:"stream_count"` // Can be string or number
	Sessions    []ActiveStream  `json:"sessions"`
}

// ActiveStream represents a single active playback session
type ActiveStream struct {
	User             string `json:"user"`
	Player           string `json:"player"`
	Product          string `json:"product"`
	State            string `json:"state"`
	Title            string `json:"title"`
	FullTitle        string `json:"full_title"`
	GrandparentTitle string `json:"grandparent_title"`
	ParentTitle      string `json:"parent_title"`
	MediaType        string `json:"media_type"`
	LibraryName      string `json:"library_name"`
	IPAddress        string `json:"ip_address"`
	Location         string `json:"location"`
}

// Streams returns the stream count, tolerating both the quoted and the
// numeric form Tautulli uses across versions.
func (a Activity) Streams() int {
	raw := strings.Trim(string(a.StreamCount), `"`)
	if raw == "" {
		return len(a.Sessions)
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return len(a.Sessions)
	}
	return count
}

// IsLocal reports whether the stream comes from the local network.
func (s ActiveStream) IsLocal() bool {
	return s.Location == "lan"
}
