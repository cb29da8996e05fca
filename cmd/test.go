package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connections to the session source and qBittorrent",
	Long:  `Verify that both collaborators answer before leaving the daemon unattended.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Println("Testing connections...")

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		sessions, err := sessionSource.ActiveSessions(ctx)
		if err != nil {
			fmt.Printf("✗ %s: %v\n", sessionSource.Name(), err)
			return fmt.Errorf("%s connection failed: %w", sessionSource.Name(), err)
		}
		fmt.Printf("✓ %s reachable, %d active sessions\n", sessionSource.Name(), len(sessions))
		return nil
	})

	g.Go(func() error {
		app, api, err := qbtClient.Versions(ctx)
		if err != nil {
			fmt.Printf("✗ qBittorrent: %v\n", err)
			return fmt.Errorf("qBittorrent connection failed: %w", err)
		}
		fmt.Printf("✓ qBittorrent %s reachable (Web API %s)\n", app, api)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println("\nAll connections OK")
	return nil
}
