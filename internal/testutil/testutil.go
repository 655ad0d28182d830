// Package testutil provides shared test helpers for dictionary fixtures and config files.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// DictionaryFiles is a small dictionary with one name per variant and a
// source-script kana table.
var DictionaryFiles = map[string]string{
	"cht/main.json":          `[["アルフィノ","阿爾菲諾"],["エオルゼア","艾歐澤亞"]]`,
	"chs/main.json":          `[["アルフィノ","阿尔菲诺"],["エオルゼア","艾欧泽亚"]]`,
	"cht/chName.json":        `[["アリゼー","阿莉塞"]]`,
	"chs/chName.json":        `[["アリゼー","阿莉塞"]]`,
	"jp/kana.json":           `[["ア","阿"],["リ","莉"]]`,
	"jp/jp1.json":            `[["ですね","呢"]]`,
	"jp/listHira.json":       `[["ありがとう",""]]`,
	"jp/subtitle.json":       `[["……","……"]]`,
	"jp/ignore.json":         `[["（テスト）","003D"]]`,
	"jp/listCrystalium.json": `[["クリスタリウム",""]]`,
}

// WriteFiles writes every path relative to root, creating directories.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, contents := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(contents), 0644))
	}
}

// SetupTestConfig writes DictionaryFiles under tmpDir/text and a config file
// pointing at them with a cache directory under tmpDir/temp.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dictionaryDir := filepath.Join(tmpDir, "text")
	cacheDir := filepath.Join(tmpDir, "temp")
	WriteFiles(t, dictionaryDir, DictionaryFiles)
	require.NoError(t, os.MkdirAll(cacheDir, 0755))

	configContent := fmt.Sprintf(`dictionary:
  directory: %s
  source_directory: jp
cache:
  directory: %s
queue:
  tick_interval: 10ms
`,
		dictionaryDir,
		cacheDir,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file with a fake OpenAI API key
// and base URL for tests that talk to a stub server.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir, baseURL string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("openai:\n  api_key: fake-key-for-testing\n  model: gpt-4o-mini\n  base_url: %s\n  max_retry_attempts: 1\n", baseURL))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}
