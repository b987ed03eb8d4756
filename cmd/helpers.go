package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/minpaixinyu/minpai/internal/api"
	"github.com/minpaixinyu/minpai/internal/config"
	"github.com/minpaixinyu/minpai/internal/db"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `minpai init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w\nRun `minpai init` to recreate it", err)
	}
	return cfg, nil
}

// newClient builds the backend client from config and resumes the session
// saved by `minpai login`, if any. Each command runs in its own process, so
// the session cookie has to come from disk.
func newClient(cfg *config.Config) (*api.Client, error) {
	client, err := api.New(cfg.BaseURL, cfg.Timeout())
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}
	if err := client.LoadCookies(cookiePath(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (continuing signed out)\n", err)
	}
	return client, nil
}

// cookiePath is where the session cookie file lives.
func cookiePath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "cookies.json")
}

// openData opens the local database under the data directory, creating the
// directory on first use. Bookmarks and chat history live here.
func openData(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", cfg.DataDir, err)
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, "minpai.db"))
	if err != nil {
		return nil, fmt.Errorf("opening local database: %w", err)
	}
	return database, nil
}
