package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Plex: PlexConfig{
			URL:   "http://localhost:32400",
			Token: "plex-token",
		},
		Tautulli: TautulliConfig{
			URL:    "http://localhost:8181",
			APIKey: "tautulli-key",
		},
		QBittorrent: QBittorrentConfig{
			URL:      "http://localhost:8080",
			Username: "admin",
			Password: "secret",
		},
		Limits: LimitsConfig{
			UploadMbps:   2,
			DownloadMbps: 8,
		},
		Poll: PollConfig{
			Interval: 30 * time.Second,
		},
		Sessions: SessionsConfig{
			Source: SourcePlex,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  nil,
			wantErr: false,
		},
		{
			name:    "missing plex url",
			modify:  func(c *Config) { c.Plex.URL = "" },
			wantErr: true,
		},
		{
			name:    "missing plex token",
			modify:  func(c *Config) { c.Plex.Token = "" },
			wantErr: true,
		},
		{
			name:    "tautulli source",
			modify:  func(c *Config) { c.Sessions.Source = SourceTautulli },
			wantErr: false,
		},
		{
			name: "tautulli source without api key",
			modify: func(c *Config) {
				c.Sessions.Source = SourceTautulli
				c.Tautulli.APIKey = ""
			},
			wantErr: true,
		},
		{
			name: "tautulli source does not need plex",
			modify: func(c *Config) {
				c.Sessions.Source = SourceTautulli
				c.Plex = PlexConfig{}
			},
			wantErr: false,
		},
		{
			name:    "invalid source",
			modify:  func(c *Config) { c.Sessions.Source = "jellyfin" },
			wantErr: true,
		},
		{
			name:    "missing qbittorrent url",
			modify:  func(c *Config) { c.QBittorrent.URL = "" },
			wantErr: true,
		},
		{
			name:    "zero upload cap",
			modify:  func(c *Config) { c.Limits.UploadMbps = 0 },
			wantErr: true,
		},
		{
			name:    "negative download cap",
			modify:  func(c *Config) { c.Limits.DownloadMbps = -1 },
			wantErr: true,
		},
		{
			name:    "zero poll interval",
			modify:  func(c *Config) { c.Poll.Interval = 0 },
			wantErr: true,
		},
		{
			name:    "valid filter",
			modify:  func(c *Config) { c.Sessions.Filter = "!Local" },
			wantErr: false,
		},
		{
			name:    "invalid filter",
			modify:  func(c *Config) { c.Sessions.Filter = "User ==" },
			wantErr: true,
		},
		{
			name:    "trace level",
			modify:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: false,
		},
		{
			name:    "invalid logging level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if tt.modify != nil {
				tt.modify(cfg)
			}

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `plex:
  url: http://plex.local:32400
  token: secret-token

qbittorrent:
  url: http://qbt.local:8080
  username: admin
  password: adminadmin

limits:
  upload_mbps: 2.5
  download_mbps: 10

poll:
  interval: 45s

sessions:
  filter: "!Local"

logging:
  level: debug
  format: json
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Plex.URL != "http://plex.local:32400" {
		t.Errorf("Plex.URL = %q", cfg.Plex.URL)
	}
	if cfg.Plex.Token != "secret-token" {
		t.Errorf("Plex.Token = %q", cfg.Plex.Token)
	}
	if cfg.QBittorrent.URL != "http://qbt.local:8080" {
		t.Errorf("QBittorrent.URL = %q", cfg.QBittorrent.URL)
	}
	if cfg.Limits.UploadMbps != 2.5 {
		t.Errorf("Limits.UploadMbps = %v", cfg.Limits.UploadMbps)
	}
	if cfg.Poll.Interval != 45*time.Second {
		t.Errorf("Poll.Interval = %s", cfg.Poll.Interval)
	}
	if cfg.Sessions.Source != SourcePlex {
		t.Errorf("Sessions.Source = %q, want default %q", cfg.Sessions.Source, SourcePlex)
	}
	if cfg.Sessions.Filter != "!Local" {
		t.Errorf("Sessions.Filter = %q", cfg.Sessions.Filter)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PLEX_URL", "http://plex.env:32400")
	t.Setenv("PLEX_TOKEN", "env-token")
	t.Setenv("QBITTORRENT_URL", "http://qbt.env:8080")
	t.Setenv("QBITTORRENT_USERNAME", "envuser")
	t.Setenv("QBITTORRENT_PASSWORD", "envpass")
	t.Setenv("LIMITS_UPLOAD_MBPS", "2.5")
	t.Setenv("LIMITS_DOWNLOAD_MBPS", "8")
	t.Setenv("POLL_INTERVAL", "10s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Plex.URL != "http://plex.env:32400" {
		t.Errorf("Plex.URL = %q", cfg.Plex.URL)
	}
	if cfg.QBittorrent.Username != "envuser" {
		t.Errorf("QBittorrent.Username = %q", cfg.QBittorrent.Username)
	}
	if cfg.Limits.UploadMbps != 2.5 {
		t.Errorf("Limits.UploadMbps = %v", cfg.Limits.UploadMbps)
	}
	if cfg.Limits.UploadBytes() != 2621440 {
		t.Errorf("Limits.UploadBytes() = %d", cfg.Limits.UploadBytes())
	}
	if cfg.Poll.Interval != 10*time.Second {
		t.Errorf("Poll.Interval = %s", cfg.Poll.Interval)
	}
}

func TestLoadLegacyEnvironmentNames(t *testing.T) {
	t.Setenv("PLEX_HOST", "http://plex.legacy:32400")
	t.Setenv("PLEX_TOKEN", "legacy-token")
	t.Setenv("QBT_HOST", "http://qbt.legacy:8080")
	t.Setenv("QBT_USER", "legacyuser")
	t.Setenv("QBT_PASS", "legacypass")
	t.Setenv("UPLOAD_LIMIT_MBPS", "4")
	t.Setenv("DOWNLOAD_LIMIT_MBPS", "16")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Plex.URL != "http://plex.legacy:32400" {
		t.Errorf("Plex.URL = %q", cfg.Plex.URL)
	}
	if cfg.QBittorrent.URL != "http://qbt.legacy:8080" {
		t.Errorf("QBittorrent.URL = %q", cfg.QBittorrent.URL)
	}
	if cfg.QBittorrent.Username != "legacyuser" {
		t.Errorf("QBittorrent.Username = %q", cfg.QBittorrent.Username)
	}
	if cfg.QBittorrent.Password != "legacypass" {
		t.Errorf("QBittorrent.Password = %q", cfg.QBittorrent.Password)
	}
	if cfg.Limits.UploadMbps != 4 {
		t.Errorf("Limits.UploadMbps = %v", cfg.Limits.UploadMbps)
	}
	if cfg.Limits.DownloadMbps != 16 {
		t.Errorf("Limits.DownloadMbps = %v", cfg.Limits.DownloadMbps)
	}
}

func TestLoadCanonicalNameWins(t *testing.T) {
	t.Setenv("PLEX_URL", "http://canonical:32400")
	t.Setenv("PLEX_HOST", "http://legacy:32400")
	t.Setenv("PLEX_TOKEN", "token")
	t.Setenv("UPLOAD_LIMIT_MBPS", "2")
	t.Setenv("DOWNLOAD_LIMIT_MBPS", "2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Plex.URL != "http://canonical:32400" {
		t.Errorf("Plex.URL = %q, want canonical name to win", cfg.Plex.URL)
	}
}

func TestLoadMalformedCap(t *testing.T) {
	t.Setenv("PLEX_URL", "http://localhost:32400")
	t.Setenv("PLEX_TOKEN", "token")
	t.Setenv("LIMITS_UPLOAD_MBPS", "fast")
	t.Setenv("LIMITS_DOWNLOAD_MBPS", "8")

	if _, err := Load(""); err == nil {
		t.Error("Load() expected error for non-numeric cap")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() expected error for missing explicit config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("plex: [unclosed"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLimitsBytes(t *testing.T) {
	tests := []struct {
		mbps float64
		want int64
	}{
		{mbps: 2.0, want: 2097152},
		{mbps: 2.5, want: 2621440},
		{mbps: 0.5, want: 524288},
		{mbps: 10, want: 10485760},
	}

	for _, tt := range tests {
		l := LimitsConfig{UploadMbps: tt.mbps, DownloadMbps: tt.mbps}
		if got := l.UploadBytes(); got != tt.want {
			t.Errorf("UploadBytes(%v) = %d, want %d", tt.mbps, got, tt.want)
		}
		if got := l.DownloadBytes(); got != tt.want {
			t.Errorf("DownloadBytes(%v) = %d, want %d", tt.mbps, got, tt.want)
		}
	}
}
