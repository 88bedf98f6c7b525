package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/peopled/peopled/internal/config"
	"github.com/peopled/peopled/internal/dependency"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the peopled server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if enabled := container.ChannelManager().EnabledChannels(); len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	}

	g.Go(func() error { return container.Server().Run(gctx, cfg.Addr()) })
	g.Go(func() error { return container.AgentService().Run(gctx) })
	g.Go(func() error { return container.ChannelManager().StartAll(gctx) })
	g.Go(func() error { return container.Backups().Start(gctx) })

	fmt.Printf("peopled serving on %s. Press Ctrl+C to stop.\n", cfg.Addr())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
