// Package config assembles the assistant's runtime settings in three
// layers: code defaults, an optional JSON file, then environment variables.
// Later layers win, which keeps container deployments configurable without
// touching the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/nooriai/noori/email"
)

// ModelConfig selects and authenticates the completion model.
type ModelConfig struct {
	// Provider is "openai" or "anthropic".
	Provider string `json:"provider" env:"NOORI_MODEL_PROVIDER"`
	Name     string `json:"name" env:"NOORI_MODEL_NAME"`
	APIKey   string `json:"api_key" env:"NOORI_MODEL_API_KEY"`
}

// TelegramConfig configures the Telegram chat front end.
type TelegramConfig struct {
	Token string `json:"token" env:"NOORI_TELEGRAM_TOKEN"`
}

// BrowserConfig configures the browser task agent.
type BrowserConfig struct {
	Enabled     bool   `json:"enabled" env:"NOORI_BROWSER_ENABLED"`
	Headless    bool   `json:"headless" env:"NOORI_BROWSER_HEADLESS"`
	DebuggerURL string `json:"debugger_url" env:"NOORI_BROWSER_DEBUGGER_URL"`
}

// Config is the full assistant configuration.
type Config struct {
	Model ModelConfig `json:"model"`

	// MaxTurns bounds completion-service calls per user utterance.
	MaxTurns int `json:"max_turns" env:"NOORI_MAX_TURNS"`

	// Instructions is the system prompt given to the completion service.
	Instructions string `json:"instructions" env:"NOORI_INSTRUCTIONS"`

	// DataDir holds the SQLite databases. Defaults to ~/.noori.
	DataDir string `json:"data_dir" env:"NOORI_DATA_DIR"`

	LogLevel  string `json:"log_level" env:"NOORI_LOG_LEVEL"`
	LogFormat string `json:"log_format" env:"NOORI_LOG_FORMAT"`

	// WhisperURL is the base URL of the transcription service. Empty
	// disables the transcribe tool.
	WhisperURL string `json:"whisper_url" env:"NOORI_WHISPER_URL"`

	IMAP     email.IMAPConfig `json:"imap"`
	SMTP     email.SMTPConfig `json:"smtp"`
	Telegram TelegramConfig   `json:"telegram"`
	Browser  BrowserConfig    `json:"browser"`
}

// Default returns the baseline configuration before file and environment
// overlays.
func Default() *Config {
	return &Config{
		Model:     ModelConfig{Provider: "openai"},
		MaxTurns:  10,
		LogLevel:  "info",
		LogFormat: "json",
		IMAP:      email.IMAPConfig{Port: 993, TLS: true},
		SMTP:      email.SMTPConfig{Port: 587, StartTLS: true},
		Browser:   BrowserConfig{Enabled: true, Headless: true},
	}
}

// Load builds the configuration: defaults, then the JSON file at path
// (skipped when path is empty or the file does not exist), then environment
// variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No file is fine; env alone can carry the config.
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := json.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".noori")
	}
	if cfg.MaxTurns < 1 {
		return nil, fmt.Errorf("config: max_turns must be positive, got %d", cfg.MaxTurns)
	}
	return cfg, nil
}

// KnowledgePath returns the knowledge-base database location.
func (c *Config) KnowledgePath() string { return filepath.Join(c.DataDir, "knowledge.db") }

// CalendarPath returns the calendar database location.
func (c *Config) CalendarPath() string { return filepath.Join(c.DataDir, "calendar.db") }

// EnsureDataDir creates the data directory if needed.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("config: create data dir: %w", err)
	}
	return nil
}
