package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .minpai.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to minpai! Let's configure the client.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend address.
	urlPrompt := promptui.Prompt{
		Label:   "Backend base URL",
		Default: cfg.BaseURL,
		Validate: func(s string) error {
			u, err := url.Parse(s)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("must be an absolute URL")
			}
			return nil
		},
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base URL prompt: %w", err)
	}
	cfg.BaseURL = baseURL

	// 2. Data directory.
	dirPrompt := promptui.Prompt{
		Label:   "Data directory (bookmarks, chat history)",
		Default: cfg.DataDir,
	}
	dataDir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir prompt: %w", err)
	}
	cfg.DataDir = dataDir

	// 3. Exam duration.
	examPrompt := promptui.Prompt{
		Label:   "Exam duration in minutes",
		Default: strconv.Itoa(cfg.Quiz.ExamMinutes),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fmt.Errorf("must be a positive number")
			}
			return nil
		},
	}
	examStr, err := examPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exam duration prompt: %w", err)
	}
	cfg.Quiz.ExamMinutes, _ = strconv.Atoi(examStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(DefaultFile); err != nil {
		return nil, err
	}

	fmt.Printf("\nSaved %s\n", DefaultFile)
	return cfg, nil
}
