// Package ruletable loads, merges and persists the substitution tables used by
// the name resolver and the text correction pipeline.
package ruletable

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"
)

// ShortNameMarker is appended to names of two runes or fewer so that they do
// not match inside longer strings.
const ShortNameMarker = "#"

// ErrCorruptTable is returned when a table file cannot be decoded.
var ErrCorruptTable = errors.New("corrupt table")

// Origin tells where an entry came from.
type Origin int

const (
	OriginStatic Origin = iota
	OriginLearned
	OriginPlayer
	OriginTemp
)

func (o Origin) String() string {
	switch o {
	case OriginLearned:
		return "learned"
	case OriginPlayer:
		return "player"
	case OriginTemp:
		return "temp"
	default:
		return ""
	}
}

func parseOrigin(tag string, fallback Origin) Origin {
	switch tag {
	case "learned":
		return OriginLearned
	case "player":
		return OriginPlayer
	case "temp":
		return OriginTemp
	case "static":
		return OriginStatic
	default:
		return fallback
	}
}

// Entry is a single substitution rule. On disk it is stored as
// ["from", "to"] or ["from", "to", "origin"].
type Entry struct {
	From   string
	To     string
	Origin Origin
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if tag := e.Origin.String(); tag != "" {
		return json.Marshal([]string{e.From, e.To, tag})
	}
	return json.Marshal([]string{e.From, e.To})
}

// Table is an immutable, ordered list of entries. Order is match priority:
// when several entries match at the same position the earlier one wins.
// The zero value is an empty table.
type Table struct {
	entries []Entry
	byRune  map[rune][]int
	exact   map[string]int
}

// NewTable builds a table keeping the given order. Entries with an empty
// From are dropped.
func NewTable(entries []Entry) Table {
	t := Table{
		entries: make([]Entry, 0, len(entries)),
		byRune:  make(map[rune][]int),
		exact:   make(map[string]int),
	}
	for _, e := range entries {
		if e.From == "" {
			continue
		}
		i := len(t.entries)
		t.entries = append(t.entries, e)
		r, _ := utf8.DecodeRuneInString(e.From)
		t.byRune[r] = append(t.byRune[r], i)
		if _, ok := t.exact[e.From]; !ok {
			t.exact[e.From] = i
		}
	}
	return t
}

// NewSortedTable builds a table ordered by From length, longest first.
// Entries of equal length keep their relative order.
func NewSortedTable(entries []Entry) Table {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i].From) > utf8.RuneCountInString(sorted[j].From)
	})
	return NewTable(sorted)
}

// Combine merges tables so that earlier tables take precedence: an entry is
// only taken from a later table when no earlier table has the same From.
// The result is ordered longest From first.
func Combine(tables ...Table) Table {
	seen := make(map[string]struct{})
	var merged []Entry
	for _, t := range tables {
		for _, e := range t.entries {
			if _, ok := seen[e.From]; ok {
				continue
			}
			seen[e.From] = struct{}{}
			merged = append(merged, e)
		}
	}
	return NewSortedTable(merged)
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in priority order.
func (t Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// With returns a new table with entries appended after the existing ones.
func (t Table) With(entries ...Entry) Table {
	all := make([]Entry, 0, len(t.entries)+len(entries))
	all = append(all, t.entries...)
	all = append(all, entries...)
	return NewTable(all)
}

// Lookup finds the entry whose From equals key exactly.
func (t Table) Lookup(key string) (Entry, bool) {
	i, ok := t.exact[key]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Has reports whether key is an exact From in the table, either as is or
// with the short-name marker.
func (t Table) Has(key string) bool {
	if _, ok := t.exact[key]; ok {
		return true
	}
	_, ok := t.exact[key+ShortNameMarker]
	return ok
}

// FindIn returns the first entry whose From occurs somewhere in text.
func (t Table) FindIn(text string) (Entry, bool) {
	for _, e := range t.entries {
		if strings.Contains(text, e.From) {
			return e, true
		}
	}
	return Entry{}, false
}

// MatchAt returns the first entry, in table order, whose From is a prefix of
// s[i:].
func (t Table) MatchAt(s string, i int) (Entry, bool) {
	r, _ := utf8.DecodeRuneInString(s[i:])
	for _, idx := range t.byRune[r] {
		e := t.entries[idx]
		if strings.HasPrefix(s[i:], e.From) {
			return e, true
		}
	}
	return Entry{}, false
}

// LongestAt returns the longest entry whose From is a prefix of s[i:].
// Ties go to the earlier entry.
func (t Table) LongestAt(s string, i int) (Entry, bool) {
	r, _ := utf8.DecodeRuneInString(s[i:])
	var (
		best  Entry
		found bool
	)
	for _, idx := range t.byRune[r] {
		e := t.entries[idx]
		if len(e.From) <= len(best.From) {
			continue
		}
		if strings.HasPrefix(s[i:], e.From) {
			best, found = e, true
		}
	}
	return best, found
}

// Replace substitutes every match in a single left-to-right pass. At each
// position the first matching entry wins and replaced text is never
// rescanned.
func (t Table) Replace(text string) string {
	if len(t.entries) == 0 || text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if e, ok := t.MatchAt(text, i); ok {
			b.WriteString(e.To)
			i += len(e.From)
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String()
}

// MarkShortName appends the short-name marker to names of one or two runes.
func MarkShortName(name string) string {
	if n := utf8.RuneCountInString(name); n > 0 && n < 3 {
		return name + ShortNameMarker
	}
	return name
}
