package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test-config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

llm:
  api_key: test-key
  model: llama-3.1-8b-instant
  min_interval: 7s

automation:
  enabled: true
  scan_interval: 1m
  mutation_delay: 5s
  comment_delay:
    min: 1s
    max: 2s
  blocked_authors: [spammer, bot]
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "test-key", cfg.LLM.APIKey)
		assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Model)
		assert.Equal(t, 7*time.Second, cfg.LLM.MinInterval)
		assert.True(t, cfg.Automation.Enabled)
		assert.Equal(t, time.Minute, cfg.Automation.ScanInterval)
		assert.Equal(t, 5*time.Second, cfg.Automation.MutationDelay)
		assert.Equal(t, DelayRange{Min: time.Second, Max: 2 * time.Second}, cfg.Automation.CommentDelay)
		assert.Equal(t, []string{"spammer", "bot"}, cfg.Automation.BlockedAuthors)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "browser:\n  headless: true\n"))
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.True(t, cfg.Browser.Headless)
		assert.Equal(t, "https://x.com/home", cfg.Browser.StartURL)
		assert.Equal(t, "https://api.groq.com/openai/v1/chat/completions", cfg.LLM.Endpoint)
		assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
		assert.Equal(t, 100, cfg.LLM.MaxTokens)
		assert.InEpsilon(t, 0.7, cfg.LLM.Temperature, 0.001)
		assert.InEpsilon(t, 0.9, cfg.LLM.TopP, 0.001)
		assert.Equal(t, 5*time.Second, cfg.LLM.MinInterval)
		assert.Equal(t, 30*time.Second, cfg.Automation.ScanInterval)
		assert.Equal(t, 10*time.Second, cfg.Automation.MutationDelay)
		assert.Equal(t, 10*time.Second, cfg.Automation.ComposeMount)
		assert.Equal(t, 2*time.Minute, cfg.Automation.OwnPostAge)
		assert.Equal(t, DelayRange{Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond}, cfg.Automation.ClickDelay)
		assert.Equal(t, []string{"Anubhavhing"}, cfg.Automation.BlockedAuthors)
		assert.Equal(t, "You", cfg.Automation.SelfMarker)
		assert.False(t, cfg.Extraction.Enabled)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("ENGAGER_TEST_KEY", "from-env")
		cfg, err := Load(writeConfig(t, "llm:\n  api_key: ${ENGAGER_TEST_KEY}\n"))
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.LLM.APIKey)
	})

	t.Run("invalid temperature", func(t *testing.T) {
		_, err := Load(writeConfig(t, "llm:\n  temperature: 3\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm.temperature")
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := Load(writeConfig(t, "automation:\n  pass_delay:\n    min: 5s\n    max: 1s\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pass_delay")
	})

	t.Run("scan interval too short", func(t *testing.T) {
		_, err := Load(writeConfig(t, "automation:\n  scan_interval: 10ms\n"))
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yml")
		require.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server: [\n"))
		require.Error(t, err)
	})
}

func TestConfig_InitialSettings(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "k"
	cfg.Automation.Enabled = true

	s := cfg.InitialSettings()
	assert.True(t, s.AutomationEnabled)
	assert.True(t, s.LikeEnabled)
	assert.True(t, s.FollowEnabled)
	assert.True(t, s.CommentEnabled)
	assert.Equal(t, "k", s.APIKey)
	assert.Equal(t, cfg.LLM.Endpoint, s.APIEndpoint)
	assert.Equal(t, cfg.LLM.Model, s.Model)
}

func TestConfig_Getters(t *testing.T) {
	cfg := Default()
	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, "127.0.0.1:8080", listen)
	assert.Equal(t, 30*time.Second, timeout)
	assert.Equal(t, "http://localhost:8080", cfg.GetBaseURL())
}
