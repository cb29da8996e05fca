package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mkopnsrc/plex-qbt-speed-limiter/config"
	"github.com/mkopnsrc/plex-qbt-speed-limiter/filter"
	"github.com/mkopnsrc/plex-qbt-speed-limiter/limiter"
	"github.com/mkopnsrc/plex-qbt-speed-limiter/plex"
	"github.com/mkopnsrc/plex-qbt-speed-limiter/qbittorrent"
	"github.com/mkopnsrc/plex-qbt-speed-limiter/tautulli"
)

var (
	cfgFile       string
	cfg           *config.Config
	logger        zerolog.Logger
	sessionSource limiter.SessionSource
	qbtClient     *qbittorrent.Client
	sessionFilter *filter.SessionFilter

	// Command flags
	dryRun bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "plex-qbt-speed-limiter",
	Short: "Throttle qBittorrent while Plex is streaming",
	Long: `plex-qbt-speed-limiter watches a Plex server for active streams and caps
qBittorrent's global transfer limits while anyone is watching. When the
last stream stops, the caps are lifted again.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "log limit changes without applying them")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override dry-run from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.Safety.DryRun = dryRun
	}

	// Compile the session filter
	if cfg.Sessions.Filter != "" {
		sessionFilter, err = filter.Compile(cfg.Sessions.Filter)
		if err != nil {
			return fmt.Errorf("invalid sessions.filter: %w", err)
		}
	}

	// Create the session source
	switch cfg.Sessions.Source {
	case config.SourceTautulli:
		client, err := tautulli.NewClient(cfg.Tautulli.URL, cfg.Tautulli.APIKey, logger)
		if err != nil {
			return fmt.Errorf("failed to create Tautulli client: %w", err)
		}
		sessionSource = limiter.TautulliSource{Client: client}
	default:
		client, err := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, logger)
		if err != nil {
			return fmt.Errorf("failed to create Plex client: %w", err)
		}
		sessionSource = limiter.PlexSource{Client: client}
	}

	// Create qBittorrent client
	var opts []qbittorrent.Option
	if cfg.QBittorrent.BasicUser != "" {
		opts = append(opts, qbittorrent.WithBasicAuth(cfg.QBittorrent.BasicUser, cfg.QBittorrent.BasicPass))
	}
	if cfg.QBittorrent.TLSSkipVerify {
		opts = append(opts, qbittorrent.WithTLSSkipVerify())
	}

	qbtClient, err = qbittorrent.NewClient(
		cfg.QBittorrent.URL,
		cfg.QBittorrent.Username,
		cfg.QBittorrent.Password,
		logger,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create qBittorrent client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	var console io.Writer = os.Stderr
	if cfg.Format != "json" {
		console = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !useColor(cfg),
		}
	}

	writer := console
	if cfg.File != "" {
		// The file sink always receives raw JSON, the console format
		// only applies to stderr.
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", cfg.File, err)
		} else {
			writer = zerolog.MultiLevelWriter(console, f)
		}
	}

	return zerolog.New(writer).With().Timestamp().Logger()
}

func useColor(cfg config.LoggingConfig) bool {
	if !cfg.Color {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// configuredCaps converts the configured MiB/s values to bytes per second.
func configuredCaps() qbittorrent.TransferLimits {
	return qbittorrent.TransferLimits{
		Upload:   cfg.Limits.UploadBytes(),
		Download: cfg.Limits.DownloadBytes(),
	}
}

// buildLoop assembles the polling loop from the initialized clients.
func buildLoop() *limiter.Loop {
	loop := limiter.NewLoop(sessionSource, qbtClient, configuredCaps(), logger)
	loop.SetInterval(cfg.Poll.Interval)
	loop.SetDryRun(cfg.Safety.DryRun)
	if sessionFilter != nil {
		loop.SetMatch(sessionFilter.Match)
	}

	return loop
}
