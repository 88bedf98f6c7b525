package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/peopled/peopled/internal/agent"
	"github.com/peopled/peopled/internal/config"
	"github.com/peopled/peopled/internal/dependency"
	"github.com/peopled/peopled/internal/schema"
)

var chatMessage string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the people assistant",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}

	orchestrator := container.Orchestrator()

	if chatMessage != "" {
		return runSingleMessage(orchestrator, chatMessage)
	}
	return runInteractive(orchestrator)
}

// runSingleMessage sends one message and prints the response.
func runSingleMessage(orchestrator *agent.Orchestrator, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := orchestrator.Turn(ctx, message, nil)
	if err != nil {
		return err
	}
	printResponse(res.Response)
	return nil
}

// runInteractive starts the REPL loop: reads lines from stdin and runs each
// through the orchestrator, carrying the accumulated history forward.
func runInteractive(orchestrator *agent.Orchestrator) error {
	fmt.Println("Interactive mode (type 'exit' or Ctrl+C to quit)")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var history []schema.Message
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("You: ")

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		res, err := orchestrator.Turn(ctx, line, history)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nGoodbye!")
				return nil
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		history = res.History
		printResponse(res.Response)
	}
}

func printResponse(text string) {
	fmt.Printf("\npeopled\n%s\n\n", text)
}
