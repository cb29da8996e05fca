package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mkopnsrc/plex-qbt-speed-limiter/filter"
)

// Load loads the configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Bind environment variables
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".plex-qbt-speed-limiter"))
		}

		// Check /etc
		v.AddConfigPath("/etc/plex-qbt-speed-limiter/")
	}

	// Read config file. Running without one is fine, defaults and
	// environment variables cover every key.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs a
// default registered or AutomaticEnv values never reach Unmarshal.
func setDefaults(v *viper.Viper) {
	// Plex defaults
	v.SetDefault("plex.url", "")
	v.SetDefault("plex.token", "")

	// Tautulli defaults
	v.SetDefault("tautulli.url", "")
	v.SetDefault("tautulli.api_key", "")

	// qBittorrent defaults
	v.SetDefault("qbittorrent.url", "http://localhost:8080")
	v.SetDefault("qbittorrent.username", "")
	v.SetDefault("qbittorrent.password", "")
	v.SetDefault("qbittorrent.basic_user", "")
	v.SetDefault("qbittorrent.basic_pass", "")
	v.SetDefault("qbittorrent.tls_skip_verify", false)

	// Limit defaults. Zero fails validation, the caps have to be set
	// deliberately.
	v.SetDefault("limits.upload_mbps", 0.0)
	v.SetDefault("limits.download_mbps", 0.0)

	// Poll defaults
	v.SetDefault("poll.interval", 30*time.Second)

	// Session defaults
	v.SetDefault("sessions.source", SourcePlex)
	v.SetDefault("sessions.filter", "")

	// Safety defaults
	v.SetDefault("safety.dry_run", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
}

// bindEnv wires environment variables to config keys. Keys map to
// their upper-cased dotted names (plex.url -> PLEX_URL); the extra
// names are the ones existing .env deployments already use.
func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("plex.url", "PLEX_URL", "PLEX_HOST")
	v.BindEnv("qbittorrent.url", "QBITTORRENT_URL", "QBT_HOST")
	v.BindEnv("qbittorrent.username", "QBITTORRENT_USERNAME", "QBT_USER")
	v.BindEnv("qbittorrent.password", "QBITTORRENT_PASSWORD", "QBT_PASS")
	v.BindEnv("limits.upload_mbps", "LIMITS_UPLOAD_MBPS", "UPLOAD_LIMIT_MBPS")
	v.BindEnv("limits.download_mbps", "LIMITS_DOWNLOAD_MBPS", "DOWNLOAD_LIMIT_MBPS")
	v.BindEnv("tautulli.api_key", "TAUTULLI_API_KEY", "TAUTULLI_APIKEY")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	switch cfg.Sessions.Source {
	case SourcePlex:
		if cfg.Plex.URL == "" {
			return fmt.Errorf("plex.url is required")
		}
		if cfg.Plex.Token == "" {
			return fmt.Errorf("plex.token is required")
		}
	case SourceTautulli:
		if cfg.Tautulli.URL == "" {
			return fmt.Errorf("tautulli.url is required")
		}
		if cfg.Tautulli.APIKey == "" {
			return fmt.Errorf("tautulli.api_key is required")
		}
	default:
		return fmt.Errorf("invalid sessions.source: %s (must be 'plex' or 'tautulli')", cfg.Sessions.Source)
	}

	if cfg.QBittorrent.URL == "" {
		return fmt.Errorf("qbittorrent.url is required")
	}

	if cfg.Limits.UploadMbps <= 0 {
		return fmt.Errorf("limits.upload_mbps must be positive, got %v", cfg.Limits.UploadMbps)
	}
	if cfg.Limits.DownloadMbps <= 0 {
		return fmt.Errorf("limits.download_mbps must be positive, got %v", cfg.Limits.DownloadMbps)
	}

	if cfg.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %s", cfg.Poll.Interval)
	}

	if cfg.Sessions.Filter != "" {
		if _, err := filter.Compile(cfg.Sessions.Filter); err != nil {
			return fmt.Errorf("invalid sessions.filter: %w", err)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
