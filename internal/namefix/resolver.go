// Package namefix resolves the displayed name of a dialogue speaker.
package namefix

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/at-ishikawa/dialogfix/internal/codec"
	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/kana"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
	"github.com/at-ishikawa/dialogfix/internal/translate"
)

// DefaultNPCChannels are the channel codes whose speaker names are NPC names.
var DefaultNPCChannels = []string{"003D", "0044", "2AB9"}

// Learner stores newly resolved names.
type Learner interface {
	LearnName(name ruletable.LearnedName)
}

// Resolver decides the displayed name for a speaker.
type Resolver struct {
	translator   translate.Translator
	learner      Learner
	npcChannels  map[string]struct{}
	skipPatterns []*regexp.Regexp
}

// NewResolver creates a resolver. When npcChannels is empty
// DefaultNPCChannels is used.
func NewResolver(translator translate.Translator, learner Learner, npcChannels []string) *Resolver {
	if len(npcChannels) == 0 {
		npcChannels = DefaultNPCChannels
	}
	channels := make(map[string]struct{}, len(npcChannels))
	for _, c := range npcChannels {
		channels[c] = struct{}{}
	}
	return &Resolver{
		translator:   translator,
		learner:      learner,
		npcChannels:  channels,
		skipPatterns: []*regexp.Regexp{kana.DefaultSkipPattern},
	}
}

// IsNPCChannel reports whether names on the channel are resolved.
func (r *Resolver) IsNPCChannel(channelCode string) bool {
	_, ok := r.npcChannels[channelCode]
	return ok
}

// Resolve returns the name to display for the line's speaker. On error the
// returned name is the untranslated speaker name.
func (r *Resolver) Resolve(ctx context.Context, rs *ruletable.RuleSet, line dialogue.Line, profile dialogue.Profile) (string, error) {
	name := line.SpeakerName
	if name == "" || !r.IsNPCChannel(line.ChannelCode) {
		return name, nil
	}

	if !profile.Fix {
		translated, err := r.translator.Translate(ctx, name, profile, nil)
		if err != nil {
			return name, fmt.Errorf("translator.Translate(%s) > %w", name, err)
		}
		return translated, nil
	}

	if resolved, ok := rs.ResolveName(name); ok {
		return resolved, nil
	}
	return r.translateName(ctx, rs, name, profile)
}

func (r *Resolver) translateName(ctx context.Context, rs *ruletable.RuleSet, name string, profile dialogue.Profile) (string, error) {
	katakana := kana.ExtractKatakana(name)

	var translatedKatakana string
	if katakana != "" {
		var err error
		translatedKatakana, err = r.resolveKatakana(ctx, rs, katakana, profile)
		if err != nil {
			return name, err
		}
	}

	if name == katakana {
		r.learn(ruletable.LearnedName{Original: name, Translated: translatedKatakana})
		return translatedKatakana, nil
	}

	table := rs.Combine
	if katakana != "" {
		table = ruletable.Combine(rs.Combine, ruletable.NewTable([]ruletable.Entry{
			{From: katakana, To: translatedKatakana, Origin: ruletable.OriginTemp},
		}))
	}
	coded, ct := codec.Protect(name, table)

	translated := coded
	if !kana.CanSkipTranslation(coded, r.skipPatterns...) {
		var err error
		translated, err = r.translator.Translate(ctx, coded, profile, ct)
		if err != nil {
			return name, fmt.Errorf("translator.Translate(%s) > %w", name, err)
		}
	}
	result := ct.Table().Replace(ct.Restore(translated))

	// Names without a katakana part are titles that depend on context, so
	// they are translated every time.
	if katakana != "" {
		r.learn(ruletable.LearnedName{
			Original:           name,
			Translated:         result,
			KatakanaOriginal:   katakana,
			KatakanaTranslated: translatedKatakana,
		})
	}
	return result, nil
}

// resolveKatakana resolves the katakana part of a name from the tables,
// falling back to the translator when the phonetic table leaves katakana.
func (r *Resolver) resolveKatakana(ctx context.Context, rs *ruletable.RuleSet, katakana string, profile dialogue.Profile) (string, error) {
	if resolved, ok := rs.ResolveName(katakana); ok {
		return resolved, nil
	}
	resolved := rs.ChName.Replace(rs.Combine.Replace(katakana))
	if kana.CountKatakana(resolved) == 0 {
		return resolved, nil
	}

	translated, err := r.translator.Translate(ctx, katakana, profile, nil)
	if err != nil {
		return "", fmt.Errorf("translator.Translate(%s) > %w", katakana, err)
	}
	slog.Default().Debug("translated a katakana name",
		slog.String("katakana", katakana),
		slog.String("translated", translated),
	)
	return translated, nil
}

func (r *Resolver) learn(name ruletable.LearnedName) {
	if r.learner == nil || name.Translated == "" {
		return
	}
	r.learner.LearnName(name)
}
