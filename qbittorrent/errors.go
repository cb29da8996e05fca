package qbittorrent

import "errors"

// Common errors returned by the qBittorrent client.
var (
	// ErrConnectionFailed is returned when connection to qBittorrent fails.
	ErrConnectionFailed = errors.New("connection to qBittorrent failed")

	// ErrInvalidLimit is returned when a transfer limit is negative.
	ErrInvalidLimit = errors.New("transfer limit must not be negative")
)
