// Package relay ties the rule table store to the correction queue. It is the
// single entry point the CLI and the HTTP server talk to.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/queue"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
)

// Store is the part of ruletable.Store the service needs.
type Store interface {
	Current() *ruletable.RuleSet
	Load(targetLanguage string) *ruletable.RuleSet
	AddTemp(category ruletable.Category, from, to string) error
}

// Queue is the part of queue.Queue the service needs.
type Queue interface {
	Enqueue(line dialogue.Line, profile dialogue.Profile) error
	Restart()
	Run(ctx context.Context) error
	Close()
	Len() int
}

// TableStat is the size of one rule table.
type TableStat struct {
	Name string
	Len  int
}

// Service owns the rule set lifecycle and the correction queue.
type Service struct {
	store Store
	queue Queue

	mu sync.Mutex
}

// NewService creates a service.
func NewService(store Store, q Queue) *Service {
	return &Service{store: store, queue: q}
}

// Reload drops every queued line and loads the rule set for the target
// language.
func (s *Service) Reload(targetLanguage string) *ruletable.RuleSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(targetLanguage)
}

func (s *Service) reload(targetLanguage string) *ruletable.RuleSet {
	s.queue.Restart()
	return s.store.Load(targetLanguage)
}

// Enqueue queues a line. A line without an ID gets a fresh one, and a
// profile with a new target language reloads the rule set first.
func (s *Service) Enqueue(line dialogue.Line, profile dialogue.Profile) (string, error) {
	if line.ID == "" {
		line.ID = ulid.Make().String()
	}
	if profile.TargetLanguage == "" {
		profile.TargetLanguage = dialogue.DefaultProfile().TargetLanguage
	}
	if profile.Engine == "" {
		profile.Engine = dialogue.DefaultProfile().Engine
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current := s.store.Current(); current.TargetLanguage != profile.TargetLanguage {
		slog.Default().Info("target language changed",
			slog.String("from", current.TargetLanguage),
			slog.String("to", profile.TargetLanguage),
		)
		s.reload(profile.TargetLanguage)
	}

	if err := s.queue.Enqueue(line, profile); err != nil {
		return "", fmt.Errorf("queue.Enqueue() > %w", err)
	}
	return line.ID, nil
}

// Learn stores a user supplied entry in a learned table.
func (s *Service) Learn(category ruletable.Category, from, to string) error {
	if err := s.store.AddTemp(category, from, to); err != nil {
		return fmt.Errorf("store.AddTemp(%s) > %w", category, err)
	}
	return nil
}

// Lookup resolves a name through the combined table without translating it.
func (s *Service) Lookup(name string) (string, bool) {
	return s.store.Current().ResolveName(name)
}

// Stats returns the size of every table in the active rule set.
func (s *Service) Stats() []TableStat {
	return RuleSetStats(s.store.Current())
}

// RuleSetStats returns the size of every table in rs.
func RuleSetStats(rs *ruletable.RuleSet) []TableStat {
	return []TableStat{
		{Name: "combine", Len: rs.Combine.Len()},
		{Name: "main", Len: rs.Main.Len()},
		{Name: "player", Len: rs.Player.Len()},
		{Name: "temp", Len: rs.Temp.Len()},
		{Name: "chName", Len: rs.ChName.Len()},
		{Name: "overwrite", Len: rs.Overwrite.Len()},
		{Name: "afterTranslation", Len: rs.AfterTranslation.Len()},
		{Name: "ignore", Len: rs.Source.Ignore.Len()},
		{Name: "subtitle", Len: rs.Source.Subtitle.Len()},
		{Name: "jp1", Len: rs.Source.JP1.Len()},
		{Name: "jp2", Len: rs.Source.JP2.Len()},
		{Name: "kana", Len: rs.Source.Kana.Len()},
		{Name: "listHira", Len: rs.Source.ListHira.Len()},
		{Name: "listReverse", Len: rs.Source.ListReverse.Len()},
		{Name: "listCrystalium", Len: rs.Source.ListCrystalium.Len()},
	}
}

// TargetLanguage returns the language of the active rule set.
func (s *Service) TargetLanguage() string {
	return s.store.Current().TargetLanguage
}

// Pending returns the number of queued lines.
func (s *Service) Pending() int {
	return s.queue.Len()
}

// Run drains the queue until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if err := s.queue.Run(ctx); err != nil {
		return fmt.Errorf("queue.Run() > %w", err)
	}
	return nil
}

// Close stops the queue.
func (s *Service) Close() {
	s.queue.Close()
}

var (
	_ Store = (*ruletable.Store)(nil)
	_ Queue = (*queue.Queue)(nil)
)
