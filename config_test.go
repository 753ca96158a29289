package priorart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.Equal(t, DefaultMaxResults, config.MaxResults)
	require.Equal(t, 5, config.Predictions)
	require.Empty(t, config.DataDir)
	require.Empty(t, config.PostgresDSN)
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads values and applies defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
max_results: 25
data_dir: /var/lib/priorart/sessions
classifier_url: https://example.com/ipccat
`), 0644))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 25, config.MaxResults)
		require.Equal(t, "/var/lib/priorart/sessions", config.DataDir)
		require.Equal(t, "https://example.com/ipccat", config.ClassifierURL)
		require.Equal(t, 5, config.Predictions)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_results: [not a number"), 0644))
		_, err := LoadConfig(path)
		require.Error(t, err)
	})
}
