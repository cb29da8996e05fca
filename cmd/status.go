package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkopnsrc/plex-qbt-speed-limiter/limiter"
	"github.com/mkopnsrc/plex-qbt-speed-limiter/qbittorrent"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current streams and transfer limits",
	Long: `Query the session source and qBittorrent once and report what the
limiter would do right now, without changing anything.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sessions, err := sessionSource.ActiveSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", sessionSource.Name(), err)
	}

	fmt.Printf("Streams (%s):\n", sessionSource.Name())
	if len(sessions) == 0 {
		fmt.Println("  none")
	}

	var counted int
	for _, s := range sessions {
		line := fmt.Sprintf("  • %s playing %s", s.User, s.DisplayTitle())
		if s.Library != "" {
			line += fmt.Sprintf(" [%s]", s.Library)
		}
		if s.Local {
			line += " (local)"
		}
		if !s.IsPlaying() {
			line += " (paused)"
		}
		if sessionFilter != nil && !sessionFilter.Match(s) {
			line += " (ignored by filter)"
		} else {
			counted++
		}
		fmt.Println(line)
	}

	snapshot, err := qbtClient.TransferSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to query qBittorrent: %w", err)
	}

	torrents, err := qbtClient.ActiveTransfers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active torrents: %w", err)
	}

	fmt.Printf("\nqBittorrent:\n")
	fmt.Printf("  Connection: %s (%d DHT nodes)\n", snapshot.ConnectionStatus, snapshot.DHTNodes)
	fmt.Printf("  Current limits: %s\n", snapshot.Limits)
	fmt.Printf("  Current speeds: up %s, down %s\n",
		qbittorrent.FormatRate(snapshot.UploadSpeed),
		qbittorrent.FormatRate(snapshot.DownloadSpeed))
	fmt.Printf("  Active torrents: %d\n", len(torrents))

	streaming := counted > 0
	target := limiter.Decide(streaming, configuredCaps())

	streamText := "stream"
	if counted != 1 {
		streamText = "streams"
	}

	fmt.Printf("\nDecision:\n")
	fmt.Printf("  %d counted %s, limits should be %s\n", counted, streamText, target)
	if snapshot.Limits == target {
		fmt.Println("  ✓ Limits already match")
	} else {
		fmt.Printf("  → run would apply %s\n", target)
	}

	return nil
}
