package relay

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	mock_dialogue "github.com/at-ishikawa/dialogfix/internal/mocks/dialogue"
	mock_queue "github.com/at-ishikawa/dialogfix/internal/mocks/queue"
	"github.com/at-ishikawa/dialogfix/internal/queue"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
	"github.com/at-ishikawa/dialogfix/internal/testutil"
)

type fixture struct {
	service  *Service
	store    *ruletable.Store
	queue    *queue.Queue
	cacheDir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dictDir := t.TempDir()
	cacheDir := t.TempDir()
	testutil.WriteFiles(t, dictDir, map[string]string{
		"cht/main.json": `[["アルフィノ","阿爾菲諾"]]`,
		"chs/main.json": `[["アルフィノ","阿尔菲诺"]]`,
	})

	store, err := ruletable.NewStore(ruletable.StoreOptions{
		DictionaryDirectory: dictDir,
		Variants: []ruletable.Variant{
			{Tag: "zh-Hant", Directory: "cht"},
			{Tag: "zh-Hans", Directory: "chs"},
		},
		CacheDirectory: cacheDir,
	})
	require.NoError(t, err)

	// Nothing is ever ticked, so neither mock is called.
	ctrl := gomock.NewController(t)
	q := queue.New(mock_queue.NewMockHandler(ctrl), mock_dialogue.NewMockPresenter(ctrl), queue.Options{
		Clock: queue.NewFakeClock(),
	})

	service := NewService(store, q)
	service.Reload("zh-Hant")
	return fixture{service: service, store: store, queue: q, cacheDir: cacheDir}
}

func TestService_Reload_dropsQueuedLines(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.service.Enqueue(dialogue.Line{Text: "こんにちは"}, dialogue.DefaultProfile())
		require.NoError(t, err)
	}
	require.Equal(t, 3, f.service.Pending())

	rs := f.service.Reload("zh-Hans")

	assert.Equal(t, 0, f.service.Pending())
	assert.Equal(t, "chs", rs.Variant)
	got, ok := f.service.Lookup("アルフィノ")
	assert.True(t, ok)
	assert.Equal(t, "阿尔菲诺", got)
}

func TestService_Enqueue(t *testing.T) {
	tests := []struct {
		name         string
		line         dialogue.Line
		profile      dialogue.Profile
		wantID       string
		wantLanguage string
	}{
		{
			name:         "keeps the line id",
			line:         dialogue.Line{ID: "line-1", Text: "はい"},
			profile:      dialogue.DefaultProfile(),
			wantID:       "line-1",
			wantLanguage: "zh-Hant",
		},
		{
			name:         "fills in the default language",
			line:         dialogue.Line{ID: "line-2", Text: "はい"},
			profile:      dialogue.Profile{Fix: true},
			wantID:       "line-2",
			wantLanguage: "zh-Hant",
		},
		{
			name:         "switches the rule set",
			line:         dialogue.Line{ID: "line-3", Text: "はい"},
			profile:      dialogue.Profile{TargetLanguage: "zh-Hans", Engine: "openai", Fix: true},
			wantID:       "line-3",
			wantLanguage: "zh-Hans",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			id, err := f.service.Enqueue(tt.line, tt.profile)

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantLanguage, f.service.TargetLanguage())
			assert.Equal(t, 1, f.service.Pending())
		})
	}
}

func TestService_Enqueue_generatesID(t *testing.T) {
	f := newFixture(t)

	first, err := f.service.Enqueue(dialogue.Line{Text: "はい"}, dialogue.DefaultProfile())
	require.NoError(t, err)
	second, err := f.service.Enqueue(dialogue.Line{Text: "いいえ"}, dialogue.DefaultProfile())
	require.NoError(t, err)

	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)
}

func TestService_Enqueue_closed(t *testing.T) {
	f := newFixture(t)
	f.service.Close()

	_, err := f.service.Enqueue(dialogue.Line{Text: "はい"}, dialogue.DefaultProfile())
	assert.ErrorIs(t, err, queue.ErrStopped)
}

func TestService_Learn(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.service.Learn(ruletable.CategoryOverwrite, "はい", "是的"))
	require.NoError(t, f.service.Learn(ruletable.CategoryName, "ウリ", "烏里"))
	assert.Error(t, f.service.Learn(ruletable.CategoryOverwrite, "", "x"))

	got, ok := f.service.Lookup("ウリ")
	assert.True(t, ok)
	assert.Equal(t, "烏里", got)
	assert.FileExists(t, filepath.Join(f.cacheDir, "overwriteTemp.json"))

	stats := map[string]int{}
	for _, s := range f.service.Stats() {
		stats[s.Name] = s.Len
	}
	assert.Equal(t, 1, stats["main"])
	assert.Equal(t, 1, stats["temp"])
	assert.Equal(t, 1, stats["overwrite"])
	assert.Equal(t, 2, stats["combine"])
}
