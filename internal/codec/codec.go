// Package codec replaces protected substrings with opaque single-rune tokens
// before text goes through a translator, and restores them afterwards.
//
// Tokens are drawn from a private-use block, so natural input never contains
// them. A CodeTable only lives for one correction call.
package codec

import (
	"strings"
	"unicode/utf8"

	"github.com/at-ishikawa/dialogfix/internal/ruletable"
)

// Token ranges inside the Unicode private-use area.
const (
	NameTokenFirst  rune = 0xE000
	NameTokenLast   rune = 0xEFFF
	ValueTokenFirst rune = 0xF000
	ValueTokenLast  rune = 0xF7FF
	// MarkEscape stands in for a literal short-name marker.
	MarkEscape rune = 0xF8FF
)

// Code records one protected substring.
type Code struct {
	Token string
	// From is the text that was protected.
	From string
	// To is what the token becomes on Restore.
	To string
}

// CodeTable maps tokens back to their substrings.
type CodeTable struct {
	codes   []Code
	byToken map[string]int
	byFrom  map[string]int
	next    rune
	last    rune
}

func newCodeTable(first, last rune) *CodeTable {
	return &CodeTable{
		byToken: make(map[string]int),
		byFrom:  make(map[string]int),
		next:    first,
		last:    last,
	}
}

// NewCodeTable returns an empty table issuing name tokens.
func NewCodeTable() *CodeTable {
	return newCodeTable(NameTokenFirst, NameTokenLast)
}

// NewValueTable returns an empty table issuing value tokens.
func NewValueTable() *CodeTable {
	return newCodeTable(ValueTokenFirst, ValueTokenLast)
}

// Add records a protected substring and returns its token. The same From
// always gets the same token. ok is false when the token range is exhausted.
func (ct *CodeTable) Add(from, to string) (string, bool) {
	if i, ok := ct.byFrom[from]; ok {
		return ct.codes[i].Token, true
	}
	if ct.next > ct.last {
		return "", false
	}
	token := string(ct.next)
	ct.next++
	ct.byFrom[from] = len(ct.codes)
	ct.byToken[token] = len(ct.codes)
	ct.codes = append(ct.codes, Code{Token: token, From: from, To: to})
	return token, true
}

// Len returns the number of codes.
func (ct *CodeTable) Len() int {
	if ct == nil {
		return 0
	}
	return len(ct.codes)
}

// Codes returns a copy of the recorded codes in issue order.
func (ct *CodeTable) Codes() []Code {
	if ct == nil {
		return nil
	}
	out := make([]Code, len(ct.codes))
	copy(out, ct.codes)
	return out
}

// Table returns the codes as a substitution table from token to To.
func (ct *CodeTable) Table() ruletable.Table {
	if ct == nil {
		return ruletable.Table{}
	}
	entries := make([]ruletable.Entry, 0, len(ct.codes))
	for _, c := range ct.codes {
		entries = append(entries, ruletable.Entry{From: c.Token, To: c.To})
	}
	return ruletable.NewTable(entries)
}

// IsToken reports whether r belongs to either token range or is MarkEscape.
func IsToken(r rune) bool {
	return (r >= NameTokenFirst && r <= NameTokenLast) || (r >= ValueTokenFirst && r <= ValueTokenLast) || r == MarkEscape
}

// StripTokens removes every token rune from text.
func StripTokens(text string) string {
	return strings.Map(func(r rune) rune {
		if IsToken(r) {
			return -1
		}
		return r
	}, text)
}

// Protect replaces every match of table in text with a token. Matching is
// leftmost-longest, single pass and never overlaps.
func Protect(text string, table ruletable.Table) (string, *CodeTable) {
	ct := NewCodeTable()
	if table.Len() == 0 || text == "" {
		return text, ct
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if e, ok := table.LongestAt(text, i); ok {
			if token, ok := ct.Add(e.From, e.To); ok {
				b.WriteString(token)
				i += len(e.From)
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String(), ct
}

// Restore replaces each token with its To value. Tokens that the translator
// dropped simply do not appear; unknown tokens are left untouched.
func (ct *CodeTable) Restore(text string) string {
	return ct.replace(text, func(c Code) string { return c.To })
}

// Revert replaces each token with the substring it protected.
func (ct *CodeTable) Revert(text string) string {
	return ct.replace(text, func(c Code) string { return c.From })
}

func (ct *CodeTable) replace(text string, value func(Code) string) string {
	if ct.Len() == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if IsToken(r) {
			if i, ok := ct.byToken[string(r)]; ok {
				b.WriteString(value(ct.codes[i]))
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
