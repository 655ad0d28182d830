// Package correction prepares dialogue text for a translator and repairs
// what comes back.
package correction

import (
	"context"
	"fmt"
	"regexp"

	"github.com/at-ishikawa/dialogfix/internal/codec"
	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/kana"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
	"github.com/at-ishikawa/dialogfix/internal/translate"
)

// Options tunes a Pipeline. Zero values select the defaults.
type Options struct {
	SpecialRules      *SpecialRules
	GenderRules       []GenderRule
	KatakanaThreshold int
	SkipPatterns      []*regexp.Regexp
}

// Pipeline runs the correction stages around a translator call.
type Pipeline struct {
	translator        translate.Translator
	specialRules      *SpecialRules
	genderRules       []GenderRule
	katakanaThreshold int
	skipPatterns      []*regexp.Regexp
}

// NewPipeline creates a pipeline.
func NewPipeline(translator translate.Translator, opts Options) *Pipeline {
	p := &Pipeline{
		translator:        translator,
		specialRules:      opts.SpecialRules,
		genderRules:       opts.GenderRules,
		katakanaThreshold: opts.KatakanaThreshold,
		skipPatterns:      opts.SkipPatterns,
	}
	if p.specialRules == nil {
		p.specialRules = DefaultSpecialRules()
	}
	if p.genderRules == nil {
		p.genderRules = DefaultGenderRules()
	}
	if p.katakanaThreshold <= 0 {
		p.katakanaThreshold = kana.DefaultKatakanaThreshold
	}
	if p.skipPatterns == nil {
		p.skipPatterns = []*regexp.Regexp{kana.DefaultSkipPattern}
	}
	return p
}

// Result is the outcome of one correction.
type Result struct {
	Text string
	// Skipped is set when the line matched the ignore table.
	Skipped bool
	// Overwritten is set when a force-overwrite entry produced the text.
	Overwritten bool
	// AllKatakana is set when the text was normalized to hiragana.
	AllKatakana bool
}

// ShouldSkip reports whether the profile enables skipping and the line
// matches the ignore table.
func (p *Pipeline) ShouldSkip(rs *ruletable.RuleSet, line dialogue.Line, profile dialogue.Profile) bool {
	return profile.Skip && rs.ShouldSkip(line.ChannelCode, line.SpeakerName, line.Text)
}

// Correct runs every stage on the line text. A translator failure is
// returned as an error and no text.
func (p *Pipeline) Correct(ctx context.Context, rs *ruletable.RuleSet, line dialogue.Line, profile dialogue.Profile) (Result, error) {
	name := line.SpeakerName
	text := line.Text
	if text == "" {
		return Result{}, nil
	}

	if p.ShouldSkip(rs, line, profile) {
		return Result{Skipped: true}, nil
	}

	if e, ok := rs.Overwrite.Lookup(text); ok {
		return Result{Text: rs.Combine.Replace(e.To), Overwritten: true}, nil
	}

	text = rs.Source.Subtitle.Replace(text)

	allKatakana := false
	if rs.IsReversed(name) {
		text = kana.Reverse(text)
	} else {
		allKatakana = kana.IsAllKatakanaLike(rs.PrefersHiragana(name), text, p.katakanaThreshold)
	}

	text = escapeMarks(text)
	text = p.specialRules.Apply(rs, name, text)
	text = rs.Source.JP1.Replace(text)

	text, codes := codec.Protect(text, rs.Combine)
	text = rs.Source.JP2.Replace(text)

	if allKatakana {
		text = converterFor(rs).Convert(text, kana.Hiragana)
	}

	text, values := protectValues(text)

	if !kana.CanSkipTranslation(text, p.skipPatterns...) {
		translated, err := p.translator.Translate(ctx, text, profile, codes)
		if err != nil {
			return Result{}, fmt.Errorf("translator.Translate > %w", err)
		}
		text = translated
	}

	text = values.Restore(text)
	text = codes.Restore(text)
	text = fixGender(p.genderRules, line.Text, text)
	text = rs.AfterTranslation.Replace(text)
	text = restoreMarks(text)
	text = codes.Table().Replace(text)

	return Result{Text: text, AllKatakana: allKatakana}, nil
}

// converterFor adds the dictionary's extra kana pairs to the standard table.
func converterFor(rs *ruletable.RuleSet) *kana.Converter {
	entries := rs.Source.Kana.Entries()
	if len(entries) == 0 {
		return kana.NewConverter()
	}
	pairs := make([][2]string, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, [2]string{e.From, e.To})
	}
	return kana.NewConverter(pairs...)
}
