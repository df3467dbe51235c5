// Package main is the entry point for the Broadcastify Calls TUI.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/m-reyes/broadcastify-calls-tui/internal/app"
	"github.com/m-reyes/broadcastify-calls-tui/internal/config"
	"github.com/m-reyes/broadcastify-calls-tui/internal/services"
	"github.com/m-reyes/broadcastify-calls-tui/internal/ui/tabs/history"
	"github.com/m-reyes/broadcastify-calls-tui/internal/ui/tabs/info"
	"github.com/m-reyes/broadcastify-calls-tui/internal/ui/tabs/live"
	"github.com/m-reyes/broadcastify-calls-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize the service manager
	// This starts all background services: feed watching and call polling
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 3. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 4. Initialize tabs with shared state and services
	state := model.GetState()
	tabs := []app.Tab{
		live.New(state),                // Tab 0: Live - latest and recent calls
		history.New(state, svcManager), // Tab 1: History - call statistics
		info.New(state, cfg),           // Tab 2: Info - configuration and app info
	}
	model.SetTabs(tabs)

	// 5. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Broadcastify Calls TUI - live scanner call monitor

Usage:
  bct [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Live, History, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           Play selected call
  p               Play latest call
  s               Stop playback
  r               Poll now
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  BROADCASTIFY_API_KEY    API key for the calls endpoint (required)
  FEED_IDS                Comma-separated feed IDs to monitor
  SCAN_INTERVAL           Poll interval (default: 30s, minimum: 10s)
  BROADCASTIFY_API_URL    Override the API base URL
  DATABASE_PATH           SQLite database path
  FEEDS_PATH              Feeds JSON file path
  PLAYER_COMMAND          External audio player command
  AUTO_PLAY               Play new calls automatically (true/false)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/bct/.env
  - ~/.bct/.env`)
}
