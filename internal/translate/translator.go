package translate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/at-ishikawa/dialogfix/internal/codec"
	"github.com/at-ishikawa/dialogfix/internal/dialogue"
)

//go:generate mockgen -source=translator.go -destination=../mocks/translate/mock_translator.go -package=mock_translate

var (
	// ErrUnknownEngine is returned when a profile names an engine that is not registered.
	ErrUnknownEngine = errors.New("unknown translation engine")
	// ErrEmptyTranslation is returned when an engine answers with nothing for non-empty input.
	ErrEmptyTranslation = errors.New("empty translation")
)

// Translator translates text for a profile. hints lists the placeholder
// tokens in text, which must come back unchanged; it may be nil.
type Translator interface {
	Translate(ctx context.Context, text string, profile dialogue.Profile, hints *codec.CodeTable) (string, error)
}

// Registry dispatches to the translator registered for profile.Engine.
type Registry struct {
	engines map[string]Translator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Translator)}
}

// Register adds or replaces an engine.
func (r *Registry) Register(engine string, t Translator) {
	r.engines[engine] = t
}

// Engines returns the registered engine names, sorted.
func (r *Registry) Engines() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Translate(ctx context.Context, text string, profile dialogue.Profile, hints *codec.CodeTable) (string, error) {
	t, ok := r.engines[profile.Engine]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, profile.Engine)
	}
	return t.Translate(ctx, text, profile, hints)
}
