package main

import (
	"fmt"
	"log"
	"os"

	"github.com/snipted/snipterm/internal/api"
	"github.com/snipted/snipterm/internal/cache"
	"github.com/snipted/snipterm/internal/config"
	"github.com/snipted/snipterm/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg := config.Default()

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		log.Fatalf("creating cache dir: %v", err)
	}

	// The terminal belongs to the TUI; logs go to a file.
	if f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	db, err := cache.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening cache: %v", err)
	}
	defer db.Close()

	client, err := api.NewClient(cfg.BaseURL)
	if err != nil {
		log.Fatalf("creating API client: %v", err)
	}

	app := ui.NewApp(cfg, client, db)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
