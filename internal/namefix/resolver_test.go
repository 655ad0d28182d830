package namefix

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/dialogfix/internal/codec"
	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	mock_translate "github.com/at-ishikawa/dialogfix/internal/mocks/translate"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
)

type recordingLearner struct {
	learned []ruletable.LearnedName
}

func (l *recordingLearner) LearnName(name ruletable.LearnedName) {
	l.learned = append(l.learned, name)
}

func TestResolver_Resolve(t *testing.T) {
	chName := ruletable.NewSortedTable([]ruletable.Entry{
		{From: "サン", To: "桑"},
		{From: "クレ", To: "克瑞"},
		{From: "ッド", To: "德"},
	})

	tests := []struct {
		name        string
		line        dialogue.Line
		combine     []ruletable.Entry
		fixDisabled bool
		setupMock   func(m *mock_translate.MockTranslator)

		want        string
		wantErr     bool
		wantLearned []ruletable.LearnedName
	}{
		{
			name:      "non NPC channel passes through",
			line:      dialogue.Line{ChannelCode: "0039", SpeakerName: "ABC"},
			setupMock: func(m *mock_translate.MockTranslator) {},
			want:      "ABC",
		},
		{
			name:      "empty name",
			line:      dialogue.Line{ChannelCode: "003D"},
			setupMock: func(m *mock_translate.MockTranslator) {},
			want:      "",
		},
		{
			name:      "exact match in combine",
			line:      dialogue.Line{ChannelCode: "003D", SpeakerName: "ABC"},
			combine:   []ruletable.Entry{{From: "ABC", To: "Xyz"}},
			setupMock: func(m *mock_translate.MockTranslator) {},
			want:      "Xyz",
		},
		{
			name:      "short name resolves through its marker form",
			line:      dialogue.Line{ChannelCode: "0044", SpeakerName: "ラ"},
			combine:   []ruletable.Entry{{From: "ラ#", To: "拉"}},
			setupMock: func(m *mock_translate.MockTranslator) {},
			want:      "拉",
		},
		{
			name:      "all katakana name resolved by the phonetic table",
			line:      dialogue.Line{ChannelCode: "003D", SpeakerName: "サンクレッド"},
			setupMock: func(m *mock_translate.MockTranslator) {},
			want:      "桑克瑞德",
			wantLearned: []ruletable.LearnedName{
				{Original: "サンクレッド", Translated: "桑克瑞德"},
			},
		},
		{
			name: "katakana left by the phonetic table is translated",
			line: dialogue.Line{ChannelCode: "003D", SpeakerName: "ウリエンジェ"},
			setupMock: func(m *mock_translate.MockTranslator) {
				m.EXPECT().Translate(gomock.Any(), "ウリエンジェ", gomock.Any(), gomock.Nil()).Return("于里昂熱", nil)
			},
			want: "于里昂熱",
			wantLearned: []ruletable.LearnedName{
				{Original: "ウリエンジェ", Translated: "于里昂熱"},
			},
		},
		{
			name: "mixed name protects the katakana part",
			line: dialogue.Line{ChannelCode: "2AB9", SpeakerName: "サンクレッド隊長"},
			setupMock: func(m *mock_translate.MockTranslator) {
				m.EXPECT().Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, text string, _ dialogue.Profile, hints *codec.CodeTable) (string, error) {
						require.Equal(t, 1, hints.Len())
						assert.NotContains(t, text, "サンクレッド")
						return strings.ReplaceAll(text, "隊長", "隊長大人"), nil
					})
			},
			want: "桑克瑞德隊長大人",
			wantLearned: []ruletable.LearnedName{
				{
					Original:           "サンクレッド隊長",
					Translated:         "桑克瑞德隊長大人",
					KatakanaOriginal:   "サンクレッド",
					KatakanaTranslated: "桑克瑞德",
				},
			},
		},
		{
			name:      "fully protected name skips the translator",
			line:      dialogue.Line{ChannelCode: "003D", SpeakerName: "アルフィノ！"},
			combine:   []ruletable.Entry{{From: "アルフィノ", To: "阿爾菲諾"}},
			setupMock: func(m *mock_translate.MockTranslator) {},
			want:      "阿爾菲諾！",
			wantLearned: []ruletable.LearnedName{
				{
					Original:           "アルフィノ！",
					Translated:         "阿爾菲諾！",
					KatakanaOriginal:   "アルフィノ",
					KatakanaTranslated: "阿爾菲諾",
				},
			},
		},
		{
			name: "name without katakana is translated but not learned",
			line: dialogue.Line{ChannelCode: "003D", SpeakerName: "ABC", Text: "こんにちは"},
			setupMock: func(m *mock_translate.MockTranslator) {
				m.EXPECT().Translate(gomock.Any(), "ABC", gomock.Any(), gomock.Any()).Return("Hello", nil)
			},
			want: "Hello",
		},
		{
			name:        "fix disabled sends the raw name",
			line:        dialogue.Line{ChannelCode: "003D", SpeakerName: "アルフィノ"},
			combine:     []ruletable.Entry{{From: "アルフィノ", To: "阿爾菲諾"}},
			fixDisabled: true,
			setupMock: func(m *mock_translate.MockTranslator) {
				m.EXPECT().Translate(gomock.Any(), "アルフィノ", gomock.Any(), gomock.Nil()).Return("Alphinaud", nil)
			},
			want: "Alphinaud",
		},
		{
			name: "translator failure returns the raw name",
			line: dialogue.Line{ChannelCode: "003D", SpeakerName: "不思議な男"},
			setupMock: func(m *mock_translate.MockTranslator) {
				m.EXPECT().Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("timeout"))
			},
			want:    "不思議な男",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			translator := mock_translate.NewMockTranslator(ctrl)
			tt.setupMock(translator)
			learner := &recordingLearner{}

			rs := &ruletable.RuleSet{
				Combine: ruletable.NewSortedTable(tt.combine),
				ChName:  chName,
			}
			profile := dialogue.DefaultProfile()
			profile.Fix = !tt.fixDisabled

			resolver := NewResolver(translator, learner, nil)
			got, err := resolver.Resolve(context.Background(), rs, tt.line, profile)

			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantLearned, learner.learned)
		})
	}
}

func TestResolver_learnsIntoStore(t *testing.T) {
	store, err := ruletable.NewStore(ruletable.StoreOptions{
		DictionaryDirectory: t.TempDir(),
		Variants:            []ruletable.Variant{{Tag: "zh-Hant", Directory: "cht"}},
		CacheDirectory:      t.TempDir(),
	})
	require.NoError(t, err)
	store.Load("zh-Hant")

	ctrl := gomock.NewController(t)
	translator := mock_translate.NewMockTranslator(ctrl)
	translator.EXPECT().Translate(gomock.Any(), "ルイ", gomock.Any(), gomock.Any()).Return("路易", nil).Times(1)

	resolver := NewResolver(translator, store, nil)
	line := dialogue.Line{ChannelCode: "003D", SpeakerName: "ルイ"}

	for i := 0; i < 2; i++ {
		got, err := resolver.Resolve(context.Background(), store.Current(), line, dialogue.DefaultProfile())
		require.NoError(t, err)
		assert.Equal(t, "路易", got)
	}
	assert.True(t, store.Current().Combine.Has("ルイ"))
}
