package config

import "time"

// Session source backends.
const (
	SourcePlex     = "plex"
	SourceTautulli = "tautulli"
)

// Config represents the complete configuration structure
type Config struct {
	Plex        PlexConfig        `mapstructure:"plex"`
	Tautulli    TautulliConfig    `mapstructure:"tautulli"`
	QBittorrent QBittorrentConfig `mapstructure:"qbittorrent"`
	Limits      LimitsConfig      `mapstructure:"limits"`
	Poll        PollConfig        `mapstructure:"poll"`
	Sessions    SessionsConfig    `mapstructure:"sessions"`
	Safety      SafetyConfig      `mapstructure:"safety"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// PlexConfig holds Plex server connection details
type PlexConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

// TautulliConfig holds Tautulli API connection details
type TautulliConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// QBittorrentConfig holds qBittorrent WebUI connection details
type QBittorrentConfig struct {
	URL           string `mapstructure:"url"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	BasicUser     string `mapstructure:"basic_user"`
	BasicPass     string `mapstructure:"basic_pass"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
}

// LimitsConfig holds the transfer caps applied while someone is
// streaming. Values are MiB/s.
type LimitsConfig struct {
	UploadMbps   float64 `mapstructure:"upload_mbps"`
	DownloadMbps float64 `mapstructure:"download_mbps"`
}

// UploadBytes converts the upload cap to bytes per second.
func (l LimitsConfig) UploadBytes() int64 {
	return int64(l.UploadMbps * 1024 * 1024)
}

// DownloadBytes converts the download cap to bytes per second.
func (l LimitsConfig) DownloadBytes() int64 {
	return int64(l.DownloadMbps * 1024 * 1024)
}

// PollConfig controls the session poll cadence
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// SessionsConfig selects the session source and an optional filter
// expression restricting which streams trigger the caps
type SessionsConfig struct {
	Source string `mapstructure:"source"`
	Filter string `mapstructure:"filter"`
}

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	DryRun bool `mapstructure:"dry_run"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	File   string `mapstructure:"file"`
}
