package presenter

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	mock_dialogue "github.com/at-ishikawa/dialogfix/internal/mocks/dialogue"
)

func TestTerminal_Present(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	tests := []struct {
		name         string
		showPending  bool
		presentation dialogue.Presentation
		want         string
	}{
		{
			name: "done with a name",
			presentation: dialogue.Presentation{
				Status: dialogue.StatusDone,
				Name:   "阿爾菲諾",
				Text:   "走吧",
				Line:   dialogue.Line{ID: "1"},
			},
			want: "[1] 阿爾菲諾: 走吧\n",
		},
		{
			name: "done without a name",
			presentation: dialogue.Presentation{
				Status: dialogue.StatusDone,
				Text:   "戰鬥開始",
				Line:   dialogue.Line{ID: "2"},
			},
			want: "[2] 戰鬥開始\n",
		},
		{
			name: "failed",
			presentation: dialogue.Presentation{
				Status: dialogue.StatusFailed,
				Text:   "翻譯失敗",
				Line:   dialogue.Line{ID: "3"},
			},
			want: "[3] 翻譯失敗\n",
		},
		{
			name:         "pending is hidden",
			presentation: dialogue.Presentation{Status: dialogue.StatusPending, Line: dialogue.Line{ID: "4"}},
			want:         "",
		},
		{
			name:         "pending is shown",
			showPending:  true,
			presentation: dialogue.Presentation{Status: dialogue.StatusPending, Line: dialogue.Line{ID: "5"}},
			want:         "[5] ...\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			terminal := NewTerminal(&out, tt.showPending)

			require.NoError(t, terminal.Present(context.Background(), tt.presentation))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestMulti_Present(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mock_dialogue.NewMockPresenter(ctrl)
	second := mock_dialogue.NewMockPresenter(ctrl)

	p := dialogue.Presentation{Status: dialogue.StatusDone, Text: "x"}
	errWrite := errors.New("write failed")
	first.EXPECT().Present(gomock.Any(), p).Return(errWrite)
	second.EXPECT().Present(gomock.Any(), p).Return(nil)

	err := Multi{first, second}.Present(context.Background(), p)
	assert.ErrorIs(t, err, errWrite)
}
