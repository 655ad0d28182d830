package ruletable

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/text/language"
)

// Category names a writable learned-cache table.
type Category string

const (
	CategoryPlayer    Category = "player"
	CategoryName      Category = "nameTemp"
	CategorySubtitle  Category = "subtitleTemp"
	CategoryOverwrite Category = "overwriteTemp"
)

// Variant maps a target language to a dictionary sub-directory.
type Variant struct {
	Tag       string
	Directory string
}

// StoreOptions configures a Store.
type StoreOptions struct {
	// DictionaryDirectory is the root of the read-only dictionaries.
	DictionaryDirectory string
	// SourceDirectory is the sub-directory with source-script tables.
	SourceDirectory string
	// Variants is ordered; the first one is used when nothing matches.
	Variants []Variant
	// CacheDirectory is where learned tables are written.
	CacheDirectory string
}

// Store owns every table. It hands out immutable RuleSet snapshots and
// replaces them atomically on load and on every learning event.
type Store struct {
	dictionaryDirectory string
	sourceDirectory     string
	cacheDirectory      string
	variants            []Variant
	matcher             language.Matcher

	mu      sync.Mutex
	current atomic.Pointer[RuleSet]
}

// NewStore creates a store with an empty rule set.
func NewStore(opts StoreOptions) (*Store, error) {
	if len(opts.Variants) == 0 {
		return nil, fmt.Errorf("at least one dictionary variant is required")
	}
	tags := make([]language.Tag, 0, len(opts.Variants))
	for _, v := range opts.Variants {
		tag, err := language.Parse(v.Tag)
		if err != nil {
			return nil, fmt.Errorf("language.Parse(%s) > %w", v.Tag, err)
		}
		tags = append(tags, tag)
	}
	sourceDirectory := opts.SourceDirectory
	if sourceDirectory == "" {
		sourceDirectory = "jp"
	}

	s := &Store{
		dictionaryDirectory: opts.DictionaryDirectory,
		sourceDirectory:     sourceDirectory,
		cacheDirectory:      opts.CacheDirectory,
		variants:            opts.Variants,
		matcher:             language.NewMatcher(tags),
	}
	s.current.Store(&RuleSet{})
	return s, nil
}

// Current returns the active snapshot.
func (s *Store) Current() *RuleSet {
	return s.current.Load()
}

// Variant returns the dictionary sub-directory selected for a target language.
func (s *Store) Variant(targetLanguage string) string {
	tag, err := language.Parse(targetLanguage)
	if err != nil {
		slog.Default().Warn("unknown target language, using the default dictionary",
			slog.String("targetLanguage", targetLanguage),
			slog.Any("error", err),
		)
		return s.variants[0].Directory
	}
	_, index, confidence := s.matcher.Match(tag)
	if confidence == language.No {
		return s.variants[0].Directory
	}
	return s.variants[index].Directory
}

// Load reads every table for the target language and replaces the active
// snapshot. Missing or corrupt files become empty tables.
func (s *Store) Load(targetLanguage string) *RuleSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	variant := s.Variant(targetLanguage)
	targetDir := filepath.Join(s.dictionaryDirectory, variant)
	sourceDir := filepath.Join(s.dictionaryDirectory, s.sourceDirectory)

	static := func(dir, name string) Table {
		return NewSortedTable(loadTable(filepath.Join(dir, name+fileExtension), OriginStatic))
	}

	rs := &RuleSet{
		TargetLanguage:   targetLanguage,
		Variant:          variant,
		ChName:           static(targetDir, "chName"),
		AfterTranslation: static(targetDir, "afterTranslation"),
		Main:             static(targetDir, "main"),
		Player:           NewTable(loadTable(s.cachePath(CategoryPlayer), OriginPlayer)),
		Temp:             NewTable(loadTable(s.cachePath(CategoryName), OriginLearned)),
		OverwriteTemp:    NewTable(loadTable(s.cachePath(CategoryOverwrite), OriginTemp)),
		SubtitleTemp:     NewTable(loadTable(s.cachePath(CategorySubtitle), OriginTemp)),
		Source: SourceRuleSet{
			Ignore:         NewTable(loadTable(filepath.Join(sourceDir, "ignore"+fileExtension), OriginStatic)),
			JP1:            static(sourceDir, "jp1"),
			JP2:            static(sourceDir, "jp2"),
			Kana:           NewTable(loadTable(filepath.Join(sourceDir, "kana"+fileExtension), OriginStatic)),
			ListHira:       static(sourceDir, "listHira"),
			ListReverse:    static(sourceDir, "listReverse"),
			ListCrystalium: static(sourceDir, "listCrystalium"),
		},
		overwriteStatic: static(targetDir, "overwrite"),
		subtitleStatic:  static(sourceDir, "subtitle"),
	}
	rs.recombine()
	s.current.Store(rs)

	slog.Default().Info("rule set loaded",
		slog.String("targetLanguage", targetLanguage),
		slog.String("variant", variant),
		slog.Int("combine", rs.Combine.Len()),
		slog.Int("overwrite", rs.Overwrite.Len()),
	)
	return rs
}

// LearnedName is a newly resolved name, optionally with the katakana part
// that was resolved on its own.
type LearnedName struct {
	Original           string
	Translated         string
	KatakanaOriginal   string
	KatakanaTranslated string
}

// LearnName appends a resolved name to the learned table, persists it and
// recomputes Combine. Names that translate to themselves are not stored.
func (s *Store) LearnName(name LearnedName) {
	if name.Original == "" || name.Original == name.Translated {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.current.Load()
	entries := []Entry{{
		From:   MarkShortName(name.Original),
		To:     name.Translated,
		Origin: OriginLearned,
	}}
	if name.KatakanaOriginal != "" &&
		name.KatakanaOriginal != name.Original &&
		!current.Combine.Has(name.KatakanaOriginal) {
		entries = append(entries, Entry{
			From:   MarkShortName(name.KatakanaOriginal),
			To:     name.KatakanaTranslated,
			Origin: OriginLearned,
		})
	}

	next := current.clone()
	next.Temp = current.Temp.With(entries...)
	next.recombine()
	s.current.Store(next)

	s.persist(CategoryName, next.Temp)
}

// SavePlayerName stores the player's full, first and last name so they are
// never translated. Nothing is written when the name is unchanged.
func (s *Store) SavePlayerName(fullName string) {
	if fullName == "" || !strings.Contains(fullName, " ") {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.current.Load()
	if entries := current.Player.entries; len(entries) > 0 && entries[0].From == fullName {
		return
	}

	parts := strings.Split(fullName, " ")
	first, last := parts[0], parts[1]

	next := current.clone()
	next.Player = NewTable([]Entry{
		{From: fullName, To: fullName, Origin: OriginPlayer},
		{From: first, To: first, Origin: OriginPlayer},
		{From: last, To: last, Origin: OriginPlayer},
	})
	next.recombine()
	s.current.Store(next)

	s.persist(CategoryPlayer, next.Player)
}

// AddTemp appends a user supplied entry to the overwrite or subtitle table.
func (s *Store) AddTemp(category Category, from, to string) error {
	if from == "" {
		return fmt.Errorf("empty source text")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.current.Load()
	next := current.clone()
	entry := Entry{From: from, To: to, Origin: OriginTemp}

	var table Table
	switch category {
	case CategoryOverwrite:
		next.OverwriteTemp = current.OverwriteTemp.With(entry)
		table = next.OverwriteTemp
	case CategorySubtitle:
		next.SubtitleTemp = current.SubtitleTemp.With(entry)
		table = next.SubtitleTemp
	case CategoryName:
		entry.From = MarkShortName(from)
		next.Temp = current.Temp.With(entry)
		table = next.Temp
	default:
		return fmt.Errorf("unsupported category %q", category)
	}
	next.recombine()
	s.current.Store(next)

	s.persist(category, table)
	return nil
}

func (s *Store) cachePath(category Category) string {
	return filepath.Join(s.cacheDirectory, string(category)+fileExtension)
}

// persist writes a learned table. A failed write is logged and the in-memory
// table stays authoritative until the next successful write.
func (s *Store) persist(category Category, table Table) {
	path := s.cachePath(category)
	if err := writeTable(path, table.entries); err != nil {
		slog.Default().Warn("failed to persist a learned table",
			slog.String("category", string(category)),
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
}
