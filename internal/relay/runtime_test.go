package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dialogfix/internal/config"
	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/queue"
	"github.com/at-ishikawa/dialogfix/internal/testutil"
)

// newOpenAIStub answers every chat completion with content.
func newOpenAIStub(t *testing.T, content string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer fake-key-for-testing", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func loadTestConfig(t *testing.T, path string) *config.Config {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")
	loader, err := config.NewConfigLoader(path)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	return cfg
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes []queue.Outcome
}

func (o *countingObserver) Observe(outcome queue.Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *countingObserver) Depth(int) {}

func TestNewRuntime(t *testing.T) {
	stub, calls := newOpenAIStub(t, "你好")
	tmpDir := t.TempDir()
	cfg := loadTestConfig(t, testutil.SetupTestConfigWithAPIKey(t, tmpDir, stub.URL+"/v1"))

	var mu sync.Mutex
	var presentations []dialogue.Presentation
	observer := &countingObserver{}
	runtime, err := NewRuntime(cfg, RuntimeOptions{
		Presenter: dialogue.PresenterFunc(func(_ context.Context, p dialogue.Presentation) error {
			mu.Lock()
			defer mu.Unlock()
			presentations = append(presentations, p)
			return nil
		}),
		Observer: observer,
		Clock:    queue.NewFakeClock(),
	})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, runtime.Close())
	}()

	assert.Equal(t, "zh-Hant", runtime.TargetLanguage())
	got, ok := runtime.Lookup("アルフィノ")
	require.True(t, ok)
	assert.Equal(t, "阿爾菲諾", got)

	id, err := runtime.Enqueue(dialogue.Line{ChannelCode: "0000", Text: "こんにちは"}, DefaultProfile(cfg.Translation))
	require.NoError(t, err)
	require.True(t, runtime.Queue.Step(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, presentations, 2)
	assert.Equal(t, dialogue.StatusPending, presentations[0].Status)
	assert.Equal(t, dialogue.StatusDone, presentations[1].Status)
	assert.Equal(t, id, presentations[1].Line.ID)
	assert.Equal(t, "你好", presentations[1].Text)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []queue.Outcome{queue.OutcomeDone}, observer.outcomes)
	assert.Equal(t, "closed", runtime.Breaker.State())
}

func TestNewRuntime_errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, cfg *config.Config)
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing API key",
			setup:   func(t *testing.T, cfg *config.Config) {},
			wantErr: ErrMissingAPIKey,
		},
		{
			name: "broken special rules file",
			setup: func(t *testing.T, cfg *config.Config) {
				path := filepath.Join(t.TempDir(), "rules.yml")
				require.NoError(t, os.WriteFile(path, []byte("rules: [[["), 0644))
				cfg.OpenAI.APIKey = "key"
				cfg.Correction.SpecialRulesFile = path
			},
			wantMsg: "correction.LoadSpecialRules()",
		},
		{
			name: "no dictionary variants",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Dictionary.Variants = nil
			},
			wantMsg: "ruletable.NewStore()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadTestConfig(t, testutil.SetupTestConfig(t, t.TempDir()))
			tt.setup(t, cfg)

			_, err := NewRuntime(cfg, RuntimeOptions{Presenter: dialogue.PresenterFunc(func(context.Context, dialogue.Presentation) error { return nil })})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
