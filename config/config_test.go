package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, 10, cfg.MaxTurns)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 993, cfg.IMAP.Port)
	assert.True(t, cfg.SMTP.StartTLS)
	assert.True(t, cfg.Browser.Headless)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"model": {"provider": "anthropic", "name": "claude-sonnet-4-0"},
		"max_turns": 5,
		"imap": {"host": "imap.example.com", "username": "u"}
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Model.Provider)
	assert.Equal(t, 5, cfg.MaxTurns)
	assert.Equal(t, "imap.example.com", cfg.IMAP.Host)
	// File values do not disturb untouched defaults.
	assert.Equal(t, 993, cfg.IMAP.Port)
	assert.True(t, cfg.Browser.Enabled)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_turns": 5}`), 0o600))

	t.Setenv("NOORI_MAX_TURNS", "3")
	t.Setenv("NOORI_MODEL_NAME", "gpt-5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxTurns)
	assert.Equal(t, "gpt-5", cfg.Model.Name)
}

func TestLoadMissingFileIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxTurns)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_turns": 0}`), 0o600))
	_, err := Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))
	_, err = Load(path)
	require.Error(t, err)
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/tmp/noori-test"
	assert.Equal(t, "/tmp/noori-test/knowledge.db", cfg.KnowledgePath())
	assert.Equal(t, "/tmp/noori-test/calendar.db", cfg.CalendarPath())
}
