package relay

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/dialogfix/internal/config"
	"github.com/at-ishikawa/dialogfix/internal/correction"
	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/namefix"
	"github.com/at-ishikawa/dialogfix/internal/observe"
	"github.com/at-ishikawa/dialogfix/internal/queue"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
	"github.com/at-ishikawa/dialogfix/internal/translate"
	"github.com/at-ishikawa/dialogfix/internal/translate/openai"
)

// ErrMissingAPIKey is returned when the openai engine is selected without a key.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is required")

// RuntimeOptions are the process-level collaborators of a Runtime.
type RuntimeOptions struct {
	Presenter dialogue.Presenter
	// Observer and Metrics are optional.
	Observer queue.Observer
	Metrics  *observe.Metrics
	Clock    queue.Clock
}

// Runtime is a fully wired Service with the store and queue behind it.
type Runtime struct {
	*Service
	Store   *ruletable.Store
	Queue   *queue.Queue
	Breaker *translate.Breaker

	client *openai.Client
}

// NewRuntime wires the store, translator, correction and queue from cfg and
// loads the rule set for the configured target language.
func NewRuntime(cfg *config.Config, opts RuntimeOptions) (*Runtime, error) {
	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}

	specialRules := correction.DefaultSpecialRules()
	if cfg.Correction.SpecialRulesFile != "" {
		specialRules, err = correction.LoadSpecialRules(cfg.Correction.SpecialRulesFile)
		if err != nil {
			return nil, fmt.Errorf("correction.LoadSpecialRules() > %w", err)
		}
	}

	registry := translate.NewRegistry()
	var client *openai.Client
	if cfg.OpenAI.APIKey != "" {
		client = openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, cfg.OpenAI.MaxRetryAttempts)
		registry.Register("openai", client)
	} else if cfg.Translation.Engine == "openai" {
		return nil, ErrMissingAPIKey
	}
	slog.Default().Debug("translation engines registered", slog.Any("engines", registry.Engines()))

	breaker := translate.NewBreaker(registry, translate.BreakerSettings{
		Name:         "translator",
		MaxFailures:  cfg.Breaker.MaxFailures,
		ResetTimeout: cfg.Breaker.ResetTimeout,
	})
	var translator translate.Translator = breaker
	if opts.Metrics != nil {
		translator = opts.Metrics.InstrumentTranslator(translator)
	}

	resolver := namefix.NewResolver(translator, store, cfg.Correction.NPCChannels)
	pipeline := correction.NewPipeline(translator, correction.Options{
		SpecialRules:      specialRules,
		KatakanaThreshold: cfg.Correction.KatakanaThreshold,
	})
	processor := correction.NewProcessor(store, resolver, pipeline, translator)

	observer := opts.Observer
	if opts.Metrics != nil {
		observer = joinObservers(observer, opts.Metrics)
	}
	q := queue.New(processor, opts.Presenter, queue.Options{
		TickInterval: cfg.Queue.TickInterval,
		MaxRetries:   cfg.Queue.MaxRetries,
		FailureText:  cfg.Queue.FailureText,
		Clock:        opts.Clock,
		Observer:     observer,
	})

	service := NewService(store, q)
	service.Reload(cfg.Translation.TargetLanguage)

	return &Runtime{
		Service: service,
		Store:   store,
		Queue:   q,
		Breaker: breaker,
		client:  client,
	}, nil
}

// NewStore creates a rule table store from the dictionary and cache
// sections of cfg. Nothing is loaded yet.
func NewStore(cfg *config.Config) (*ruletable.Store, error) {
	variants := make([]ruletable.Variant, 0, len(cfg.Dictionary.Variants))
	for _, v := range cfg.Dictionary.Variants {
		variants = append(variants, ruletable.Variant{Tag: v.Tag, Directory: v.Directory})
	}
	store, err := ruletable.NewStore(ruletable.StoreOptions{
		DictionaryDirectory: cfg.Dictionary.Directory,
		SourceDirectory:     cfg.Dictionary.SourceDirectory,
		Variants:            variants,
		CacheDirectory:      cfg.Cache.Directory,
	})
	if err != nil {
		return nil, fmt.Errorf("ruletable.NewStore() > %w", err)
	}
	return store, nil
}

// DefaultProfile is the profile lines get when the caller has none.
func DefaultProfile(cfg config.TranslationConfig) dialogue.Profile {
	return dialogue.Profile{
		TargetLanguage: cfg.TargetLanguage,
		Engine:         cfg.Engine,
		Fix:            cfg.Fix,
		Skip:           cfg.Skip,
	}
}

// Close stops the queue and releases the translator client.
func (r *Runtime) Close() error {
	r.Service.Close()
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("client.Close() > %w", err)
	}
	return nil
}

type observers []queue.Observer

func joinObservers(list ...queue.Observer) queue.Observer {
	var joined observers
	for _, o := range list {
		if o != nil {
			joined = append(joined, o)
		}
	}
	return joined
}

func (o observers) Observe(outcome queue.Outcome, elapsed time.Duration) {
	for _, observer := range o {
		observer.Observe(outcome, elapsed)
	}
}

func (o observers) Depth(n int) {
	for _, observer := range o {
		observer.Depth(n)
	}
}
