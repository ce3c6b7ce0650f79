package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spacesedan/tickerpulse/config"
	"github.com/spacesedan/tickerpulse/internal/aggregator"
	"github.com/spacesedan/tickerpulse/internal/app"
	"github.com/spacesedan/tickerpulse/internal/logging"
	"github.com/spacesedan/tickerpulse/internal/tui"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs would corrupt the alternate screen; send them to a file when asked.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if path := os.Getenv("TICKERPULSE_LOG_FILE"); path != "" {
		f, err := tea.LogToFile(path, "tickerpulse")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logging.InitLoggerTo(f, cfg.App.LogLevel, "production")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := app.New(cfg)
	defer a.Close()
	a.Start(ctx)

	model := tui.NewModel(aggregator.NewDashboard(a.Orchestrator), cfg.App.RequestTimeout*3)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
