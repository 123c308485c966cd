package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjun/clinicbook/internal/api"
	"github.com/arjun/clinicbook/internal/config"
	"github.com/arjun/clinicbook/internal/logging"
	"github.com/arjun/clinicbook/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog := logging.Open(cfg.Log.Path, cfg.Log.Level)
	defer closeLog()

	client, err := api.New(cfg.Server.BaseURL, cfg.Server.Timeout(), logger)
	if err != nil {
		log.Fatalf("gateway: %v", err)
	}

	logger.Info().Str("base_url", cfg.Server.BaseURL).Msg("starting")

	p := tea.NewProgram(tui.New(ctx, cfg, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
