package translate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	mock_translate "github.com/at-ishikawa/dialogfix/internal/mocks/translate"
	"github.com/at-ishikawa/dialogfix/internal/translate"
)

func TestRegistry_Translate(t *testing.T) {
	tests := []struct {
		name      string
		engine    string
		setupMock func(m *mock_translate.MockTranslator)
		want      string
		wantErr   error
	}{
		{
			name:   "dispatches by engine",
			engine: "openai",
			setupMock: func(m *mock_translate.MockTranslator) {
				m.EXPECT().Translate(gomock.Any(), "こんにちは", gomock.Any(), gomock.Nil()).Return("你好", nil)
			},
			want: "你好",
		},
		{
			name:      "unknown engine",
			engine:    "deepl",
			setupMock: func(m *mock_translate.MockTranslator) {},
			wantErr:   translate.ErrUnknownEngine,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mock_translate.NewMockTranslator(ctrl)
			tt.setupMock(m)

			registry := translate.NewRegistry()
			registry.Register("openai", m)
			assert.Equal(t, []string{"openai"}, registry.Engines())

			profile := dialogue.DefaultProfile()
			profile.Engine = tt.engine
			got, err := registry.Translate(context.Background(), "こんにちは", profile, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBreaker_opensAfterConsecutiveFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_translate.NewMockTranslator(ctrl)
	failure := errors.New("upstream down")
	m.EXPECT().Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", failure).Times(2)

	breaker := translate.NewBreaker(m, translate.BreakerSettings{
		Name:         "openai",
		MaxFailures:  2,
		ResetTimeout: time.Minute,
	})
	profile := dialogue.DefaultProfile()

	for i := 0; i < 2; i++ {
		_, err := breaker.Translate(context.Background(), "text", profile, nil)
		assert.ErrorIs(t, err, failure)
	}
	assert.Equal(t, "open", breaker.State())

	_, err := breaker.Translate(context.Background(), "text", profile, nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, failure)
}

func TestBreaker_passesResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_translate.NewMockTranslator(ctrl)
	m.EXPECT().Translate(gomock.Any(), "text", gomock.Any(), gomock.Any()).Return("result", nil)

	breaker := translate.NewBreaker(m, translate.BreakerSettings{Name: "openai"})
	got, err := breaker.Translate(context.Background(), "text", dialogue.DefaultProfile(), nil)

	require.NoError(t, err)
	assert.Equal(t, "result", got)
	assert.Equal(t, "closed", breaker.State())
}
