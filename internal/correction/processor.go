package correction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/kana"
	"github.com/at-ishikawa/dialogfix/internal/namefix"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
	"github.com/at-ishikawa/dialogfix/internal/translate"
)

// RuleSource hands out the active rule set and records the player name.
type RuleSource interface {
	Current() *ruletable.RuleSet
	SavePlayerName(fullName string)
}

// Processor corrects a whole dialogue line: speaker name, text and audio text.
type Processor struct {
	rules             RuleSource
	resolver          *namefix.Resolver
	pipeline          *Pipeline
	translator        translate.Translator
	katakanaThreshold int
}

// NewProcessor creates a processor.
func NewProcessor(rules RuleSource, resolver *namefix.Resolver, pipeline *Pipeline, translator translate.Translator) *Processor {
	return &Processor{
		rules:             rules,
		resolver:          resolver,
		pipeline:          pipeline,
		translator:        translator,
		katakanaThreshold: pipeline.katakanaThreshold,
	}
}

// ShouldSkip reports whether the line is discarded by the ignore table.
func (p *Processor) ShouldSkip(line dialogue.Line, profile dialogue.Profile) bool {
	return p.pipeline.ShouldSkip(p.rules.Current(), line, profile)
}

// Process corrects a line. The returned presentation carries an empty Text
// when the translation failed; the error says why.
func (p *Processor) Process(ctx context.Context, line dialogue.Line, profile dialogue.Profile) (dialogue.Presentation, error) {
	p.rules.SavePlayerName(line.PlayerName)

	name, err := p.resolver.Resolve(ctx, p.rules.Current(), line, profile)
	if err != nil {
		slog.Default().Info("failed to resolve a speaker name, showing it untranslated",
			slog.String("id", line.ID),
			slog.String("name", line.SpeakerName),
			slog.Any("error", err),
		)
	}

	// Name resolution may have learned entries that the text can use.
	rs := p.rules.Current()

	text, err := p.correctText(ctx, rs, line, profile)
	if errors.Is(err, dialogue.ErrSkipped) {
		return dialogue.Presentation{}, err
	}
	if err != nil {
		return dialogue.Presentation{Status: dialogue.StatusFailed, Name: name, Line: line, Profile: profile}, err
	}
	if line.Text != "" && text == "" {
		return dialogue.Presentation{Status: dialogue.StatusFailed, Name: name, Line: line, Profile: profile}, translate.ErrEmptyTranslation
	}

	line.AudioText = p.audioText(rs, line)
	return dialogue.Presentation{
		Status:  dialogue.StatusDone,
		Name:    name,
		Text:    text,
		Line:    line,
		Profile: profile,
	}, nil
}

func (p *Processor) correctText(ctx context.Context, rs *ruletable.RuleSet, line dialogue.Line, profile dialogue.Profile) (string, error) {
	if !profile.Fix {
		if line.Text == "" {
			return "", nil
		}
		text, err := p.translator.Translate(ctx, line.Text, profile, nil)
		if err != nil {
			return "", fmt.Errorf("translator.Translate > %w", err)
		}
		return text, nil
	}

	result, err := p.pipeline.Correct(ctx, rs, line, profile)
	if err != nil {
		return "", fmt.Errorf("pipeline.Correct > %w", err)
	}
	if result.Skipped {
		return "", dialogue.ErrSkipped
	}
	return result.Text, nil
}

// audioText picks the text handed to audio consumers.
func (p *Processor) audioText(rs *ruletable.RuleSet, line dialogue.Line) string {
	switch {
	case rs.IsReversed(line.SpeakerName):
		return kana.Reverse(line.AudioText)
	case kana.IsAllKatakanaLike(rs.PrefersHiragana(line.SpeakerName), line.Text, p.katakanaThreshold):
		return kana.Convert(line.AudioText, kana.Hiragana)
	default:
		return line.Text
	}
}
