package config

import (
	"os"
	"path/filepath"
)

// DefaultFile is the config file the CLI looks for.
const DefaultFile = ".minpai.yml"

// DefaultConfig returns the configuration used when no file or overrides
// exist.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:5000",
		DataDir:        defaultDataDir(),
		TimeoutSeconds: 30,
		Quiz:           Quiz{ExamMinutes: 15},
		Serve:          Serve{Port: 8632},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".minpai"
	}
	return filepath.Join(home, ".minpai")
}
