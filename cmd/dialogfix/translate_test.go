package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/queue"
	"github.com/at-ishikawa/dialogfix/internal/testutil"
)

func TestReadLines(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []dialogue.Line
		wantErr string
	}{
		{
			name: "ids default to the line number",
			input: `{"code":"003d","name":"アルフィノ","text":"行こう"}

{"id":"x","code":"0000","text":"はい","audioText":"はい","playerName":"Foo Bar"}
`,
			want: []dialogue.Line{
				{ID: "1", ChannelCode: "003D", SpeakerName: "アルフィノ", Text: "行こう"},
				{ID: "x", ChannelCode: "0000", PlayerName: "Foo Bar", Text: "はい", AudioText: "はい"},
			},
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:    "broken line",
			input:   "{\"code\":\"003D\"}\n{broken\n",
			wantErr: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readLines(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBatchObserver(t *testing.T) {
	o := newBatchObserver(2)
	o.Observe(queue.OutcomeRetried, 0)
	o.Observe(queue.OutcomeDone, 0)
	select {
	case <-o.done:
		t.Fatal("done before every line finished")
	default:
	}
	o.Observe(queue.OutcomeExhausted, 0)
	<-o.done
	assert.Equal(t, "done: 1, failed: 1, skipped: 0, retries: 1", o.summary())

	empty := newBatchObserver(0)
	<-empty.done
}

func TestTranslateCommand(t *testing.T) {
	color.NoColor = true
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")

	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "你好"}},
			},
		})
	}))
	defer stub.Close()

	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfigWithAPIKey(t, tmpDir, stub.URL+"/v1")
	input := filepath.Join(tmpDir, "lines.jsonl")
	require.NoError(t, os.WriteFile(input, []byte(`{"id":"a","code":"0000","text":"こんにちは"}
{"id":"b","code":"0000","text":"こんばんは"}
`), 0644))

	stdout, stderr, err := execute(t, "--config", cfgPath, "translate", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[a] 你好\n")
	assert.Contains(t, stdout, "[b] 你好\n")
	assert.Contains(t, stderr, "done: 2, failed: 0, skipped: 0, retries: 0")
}

func TestTranslateCommand_errors(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)

	_, _, err := execute(t, "--config", cfgPath, "translate", filepath.Join(tmpDir, "missing.jsonl"))
	assert.ErrorContains(t, err, "os.Open")

	input := filepath.Join(tmpDir, "lines.jsonl")
	require.NoError(t, os.WriteFile(input, []byte(`{"code":"0000","text":"x"}`), 0644))
	_, _, err = execute(t, "--config", cfgPath, "translate", input)
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}
