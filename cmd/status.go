package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/peopled/peopled/internal/config"
	"github.com/peopled/peopled/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show peopled status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Println("peopled Status")
	fmt.Println()

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:   %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	keyMark := "(not set)"
	if cfg.LLM.APIKey != "" {
		keyMark = "✓"
	}
	fmt.Printf("API key:  %s\n", keyMark)
	fmt.Printf("Model:    %s\n", cfg.LLM.Model)
	fmt.Printf("Listen:   %s\n", cfg.Addr())

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		fmt.Printf("Store:    %s ✗ (%v)\n", cfg.Store.Path, err)
		return nil
	}
	fmt.Printf("Store:    %s ✓ (%d people)\n", cfg.Store.Path, st.Count())

	var chs []string
	if cfg.Channels.Telegram.Enabled {
		chs = append(chs, "telegram")
	}
	if cfg.Channels.Slack.Enabled {
		chs = append(chs, "slack")
	}
	if len(chs) == 0 {
		fmt.Println("Channels: (none)")
	} else {
		fmt.Printf("Channels: %v\n", chs)
	}
	return nil
}
