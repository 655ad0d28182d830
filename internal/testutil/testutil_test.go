package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dialogfix/internal/config"
)

func TestWriteFiles(t *testing.T) {
	tmpDir := t.TempDir()
	WriteFiles(t, tmpDir, map[string]string{
		"a/b/c.json": `[]`,
		"d.json":     `[["x","y"]]`,
	})

	got, err := os.ReadFile(filepath.Join(tmpDir, "a", "b", "c.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	got, err = os.ReadFile(filepath.Join(tmpDir, "d.json"))
	require.NoError(t, err)
	assert.Equal(t, `[["x","y"]]`, string(got))
}

func TestSetupTestConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)
	assert.Equal(t, filepath.Join(tmpDir, "config.yml"), got)

	for path := range DictionaryFiles {
		_, err := os.Stat(filepath.Join(tmpDir, "text", path))
		assert.NoError(t, err, "%s should exist", path)
	}

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "text"), cfg.Dictionary.Directory)
	assert.Equal(t, filepath.Join(tmpDir, "temp"), cfg.Cache.Directory)
	assert.Empty(t, cfg.OpenAI.APIKey)
}

func TestSetupTestConfigWithAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")
	tmpDir := t.TempDir()
	got := SetupTestConfigWithAPIKey(t, tmpDir, "http://127.0.0.1:9999/v1")

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "fake-key-for-testing", cfg.OpenAI.APIKey)
	assert.Equal(t, "http://127.0.0.1:9999/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, uint(1), cfg.OpenAI.MaxRetryAttempts)
}
