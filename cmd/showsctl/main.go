// Command showsctl is a terminal client for the TV show library API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iliyamo/tv-show-library/internal/apiclient"
	"github.com/iliyamo/tv-show-library/internal/config"
	"github.com/iliyamo/tv-show-library/internal/logger"
	"github.com/iliyamo/tv-show-library/internal/tui"
)

func main() {
	var (
		configPath string
		serverURL  string
		token      string
		saveConfig bool
		logPath    string
	)
	flag.StringVar(&configPath, "config", config.DefaultClientConfigPath(), "Path to the client config file")
	flag.StringVar(&serverURL, "server", "", "API base URL (overrides the config file)")
	flag.StringVar(&token, "token", "", "Bearer token for write operations (overrides the config file)")
	flag.BoolVar(&saveConfig, "save", false, "Write the effective settings back to the config file")
	flag.StringVar(&logPath, "log", "showsctl.log", "Log file")
	flag.Parse()

	cfg, err := config.LoadClientConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if token != "" {
		cfg.APIToken = token
	}
	if saveConfig {
		if err := config.SaveClientConfig(configPath, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	// The terminal belongs to the UI, so logs go to a file.
	log := logger.Discard()
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		defer f.Close()
		log = logger.New(logger.Config{Writer: f, Format: logger.FormatText, Level: slog.LevelInfo})
	}
	log.Info("starting", "server", cfg.ServerURL, "config", configPath)

	api := apiclient.New(cfg.ServerURL, cfg.APIToken, 10*time.Second)
	m := tui.New(api, tui.Options{
		Debounce:    cfg.Debounce(),
		Suggestions: cfg.Suggestions,
		Logger:      log,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Error("ui stopped", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
