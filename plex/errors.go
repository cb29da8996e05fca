package plex

import "errors"

// Common errors returned by the Plex client.
var (
	// ErrUnauthorized indicates the server rejected the Plex token.
	ErrUnauthorized = errors.New("plex token was rejected")

	// ErrInvalidResponse indicates the API returned an unexpected response format.
	ErrInvalidResponse = errors.New("invalid response from Plex API")
)
