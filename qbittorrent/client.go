package qbittorrent

import (
	"context"
	"errors"
	"fmt"

	"github.com/autobrr/go-qbittorrent"
	"github.com/rs/zerolog"
)

// Client wraps the qBittorrent API client
type Client struct {
	client *qbittorrent.Client
	logger zerolog.Logger
}

// NewClient creates a new qBittorrent client and logs in to verify the
// connection.
func NewClient(url, username, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("qbittorrent URL is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	client := qbittorrent.NewClient(qbittorrent.Config{
		Host:          url,
		Username:      username,
		Password:      password,
		BasicUser:     o.basicUser,
		BasicPass:     o.basicPass,
		TLSSkipVerify: o.tlsSkipVerify,
		Timeout:       int(o.timeout.Seconds()),
	})

	// Test connection by logging in
	if err := client.LoginCtx(context.Background()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// TransferSnapshot reads the global transfer state, including the
// currently applied rate limits.
func (c *Client) TransferSnapshot(ctx context.Context) (*TransferSnapshot, error) {
	info, err := c.client.GetTransferInfoCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer info: %w", err)
	}

	snapshot := &TransferSnapshot{
		Limits: TransferLimits{
			Upload:   info.UpRateLimit,
			Download: info.DlRateLimit,
		},
		UploadSpeed:      info.UpInfoSpeed,
		DownloadSpeed:    info.DlInfoSpeed,
		DHTNodes:         info.DHTNodes,
		ConnectionStatus: string(info.ConnectionStatus),
	}

	c.logger.Debug().
		Stringer("limits", snapshot.Limits).
		Str("connection", snapshot.ConnectionStatus).
		Msg("Retrieved transfer info from qBittorrent")

	return snapshot, nil
}

// TransferLimits reads the currently applied global rate limits.
func (c *Client) TransferLimits(ctx context.Context) (TransferLimits, error) {
	snapshot, err := c.TransferSnapshot(ctx)
	if err != nil {
		return TransferLimits{}, err
	}
	return snapshot.Limits, nil
}

// SetTransferLimits applies both global rate limits. A zero value lifts
// the cap for that direction. Both writes are attempted even when the
// first one fails so a partial outage cannot strand one direction.
func (c *Client) SetTransferLimits(ctx context.Context, limits TransferLimits) error {
	if limits.Upload < 0 || limits.Download < 0 {
		return ErrInvalidLimit
	}

	var errs []error
	if err := c.client.SetGlobalUploadLimitCtx(ctx, limits.Upload); err != nil {
		errs = append(errs, fmt.Errorf("failed to set upload limit: %w", err))
	}
	if err := c.client.SetGlobalDownloadLimitCtx(ctx, limits.Download); err != nil {
		errs = append(errs, fmt.Errorf("failed to set download limit: %w", err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.logger.Debug().Stringer("limits", limits).Msg("Applied transfer limits to qBittorrent")
	return nil
}

// ActiveTransfers returns the torrents currently moving data.
func (c *Client) ActiveTransfers(ctx context.Context) ([]TorrentActivity, error) {
	torrents, err := c.client.GetTorrentsCtx(ctx, qbittorrent.TorrentFilterOptions{
		Filter: qbittorrent.TorrentFilterActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get active torrents: %w", err)
	}

	c.logger.Debug().Msgf("Retrieved %d active torrents from qBittorrent", len(torrents))

	results := make([]TorrentActivity, 0, len(torrents))
	for _, t := range torrents {
		results = append(results, TorrentActivity{
			Hash:          t.Hash,
			Name:          t.Name,
			State:         string(t.State),
			Category:      t.Category,
			UploadSpeed:   t.UpSpeed,
			DownloadSpeed: t.DlSpeed,
		})
	}

	return results, nil
}

// Versions returns the qBittorrent application and Web API versions.
func (c *Client) Versions(ctx context.Context) (app, api string, err error) {
	app, err = c.client.GetAppVersionCtx(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to get app version: %w", err)
	}

	api, err = c.client.GetWebAPIVersionCtx(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to get web API version: %w", err)
	}

	return app, api, nil
}
