// Package qbittorrent provides a client for interacting with the qBittorrent Web API.
//
// This package wraps the autobrr/go-qbittorrent library to provide a higher-level
// interface tailored for this application's needs, particularly reading and
// writing the global transfer rate limits.
//
// # Features
//
//   - Connection management with authentication
//   - Global transfer limit reads and writes
//   - Live transfer and torrent activity snapshots
//   - Context-aware operations for graceful cancellation
//
// # Usage
//
//	client, err := qbittorrent.NewClient(url, username, password, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Cap both directions at 2 MiB/s
//	err = client.SetTransferLimits(ctx, qbittorrent.TransferLimits{
//	    Upload:   2 << 20,
//	    Download: 2 << 20,
//	})
//
//	// Lift the caps again
//	err = client.SetTransferLimits(ctx, qbittorrent.TransferLimits{})
package qbittorrent
