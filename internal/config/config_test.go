package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("REDDIT_USER_AGENT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Generate.Draws)
	assert.Equal(t, 30, cfg.Generate.Keep)
	assert.Equal(t, 10, cfg.Generate.MinDuration)
	assert.Equal(t, 20, cfg.Generate.MaxDuration)
	assert.Equal(t, "baxter-trends/1.0", cfg.Reddit.UserAgent)
	assert.Equal(t, 20*time.Second, cfg.YouTube.Timeout)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ideapack.yaml")
	yml := `
youtube:
  api_key: from-yaml
  region: GB
reddit:
  subreddits: [funny]
generate:
  keep: 12
  fallback_probability: 0
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Run("yaml only", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEY", "")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-yaml", cfg.YouTube.APIKey)
		assert.Equal(t, "GB", cfg.YouTube.Region)
		assert.Equal(t, []string{"funny"}, cfg.Reddit.Subreddits)
		assert.Equal(t, 12, cfg.Generate.Keep)
		assert.Zero(t, cfg.Generate.FallbackProbability)
		// Fields absent from the file keep their defaults.
		assert.Equal(t, 60, cfg.Generate.Draws)
	})

	t.Run("env wins", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEY", "from-env")
		t.Setenv("TG_CHAT_ID", "42")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.YouTube.APIKey)
		assert.Equal(t, "42", cfg.Telegram.ChatID)
	})
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generate: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
