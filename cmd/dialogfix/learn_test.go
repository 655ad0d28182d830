package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dialogfix/internal/testutil"
)

func TestLearnCategory_Set(t *testing.T) {
	var c learnCategory
	require.NoError(t, c.Set("overwrite"))
	assert.Equal(t, learnCategoryOverwrite, c)
	assert.EqualError(t, c.Set("player"), "invalid category: player")
	assert.Equal(t, "category", c.Type())
}

func TestLearnCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFile string
		wantJSON string
		wantErr  string
	}{
		{
			name:     "name",
			args:     []string{"learn", "ウリエンジェ", "于里昂热"},
			wantFile: "nameTemp.json",
			wantJSON: `[["ウリエンジェ","于里昂热","temp"]]`,
		},
		{
			name:     "subtitle",
			args:     []string{"learn", "--category", "subtitle", "……"},
			wantFile: "subtitleTemp.json",
			wantJSON: `[["……","","temp"]]`,
		},
		{
			name:    "unknown category",
			args:    []string{"learn", "--category", "player", "a", "b"},
			wantErr: "invalid category",
		},
		{
			name:    "too many arguments",
			args:    []string{"learn", "a", "b", "c"},
			wantErr: "accepts between 1 and 2 arg(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfgPath := testutil.SetupTestConfig(t, tmpDir)
			stdout, _, err := execute(t, append([]string{"--config", cfgPath}, tt.args...)...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, stdout, "learned")

			got, err := os.ReadFile(filepath.Join(tmpDir, "temp", tt.wantFile))
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(got))
		})
	}
}
