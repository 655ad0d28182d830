package correction

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed special_rules.yaml
var defaultSpecialRules []byte

// RuleKind selects the transform a special rule applies.
type RuleKind string

const (
	// KindRemove deletes every occurrence of Target.
	KindRemove RuleKind = "remove"
	// KindReplace replaces every occurrence of Target with Replacement.
	KindReplace RuleKind = "replace"
	// KindReplacePattern replaces every match of Pattern with Replacement.
	KindReplacePattern RuleKind = "replace_pattern"
	// KindStripPrefix removes a match of Pattern at the start of the text
	// until it no longer matches there.
	KindStripPrefix RuleKind = "strip_prefix"
	// KindDedupeClause collapses "X<Separator>X" into "X" when X has at
	// least MinLength characters.
	KindDedupeClause RuleKind = "dedupe_clause"
	// KindQualify replaces Target with Replacement unless it directly follows
	// one of NotAfter or directly precedes one of NotBefore.
	KindQualify RuleKind = "qualify"
)

// SpeakerList names a speaker list from the source rule set.
type SpeakerList string

const (
	SpeakerListCrystalium SpeakerList = "crystalium"
	SpeakerListHiragana   SpeakerList = "hiragana"
	SpeakerListReverse    SpeakerList = "reverse"
)

// SpeakerLists answers list membership for a speaker name.
type SpeakerLists interface {
	IsCrystalium(name string) bool
	PrefersHiragana(name string) bool
	IsReversed(name string) bool
}

// SpecialRule is one speaker-conditioned text transform.
type SpecialRule struct {
	Name string `yaml:"name"`

	// Speaker is a regular expression on the speaker name. Empty matches
	// every speaker.
	Speaker         string      `yaml:"speaker"`
	ExcludeSpeakers []string    `yaml:"exclude_speakers"`
	SpeakerList     SpeakerList `yaml:"speaker_list"`
	TextContains    string      `yaml:"text_contains"`

	Kind        RuleKind `yaml:"kind"`
	Target      string   `yaml:"target"`
	Pattern     string   `yaml:"pattern"`
	Replacement string   `yaml:"replacement"`
	Separator   string   `yaml:"separator"`
	MinLength   int      `yaml:"min_length"`
	NotAfter    []string `yaml:"not_after"`
	NotBefore   []string `yaml:"not_before"`

	speaker *regexp.Regexp
	pattern *regexp.Regexp
}

type specialRuleFile struct {
	Rules []SpecialRule `yaml:"rules"`
}

// SpecialRules is an ordered list of compiled special rules.
type SpecialRules struct {
	rules []SpecialRule
}

// DefaultSpecialRules returns the embedded rule table.
func DefaultSpecialRules() *SpecialRules {
	rules, err := ParseSpecialRules(defaultSpecialRules)
	if err != nil {
		panic(fmt.Sprintf("embedded special rules are invalid: %v", err))
	}
	return rules
}

// LoadSpecialRules reads a rule table from a YAML file.
func LoadSpecialRules(path string) (*SpecialRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	rules, err := ParseSpecialRules(data)
	if err != nil {
		return nil, fmt.Errorf("ParseSpecialRules(%s) > %w", path, err)
	}
	return rules, nil
}

// ParseSpecialRules decodes and compiles a YAML rule table.
func ParseSpecialRules(data []byte) (*SpecialRules, error) {
	var file specialRuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal > %w", err)
	}

	var errs []error
	for i := range file.Rules {
		if err := file.Rules[i].compile(); err != nil {
			errs = append(errs, fmt.Errorf("rule %d (%s): %w", i, file.Rules[i].Name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &SpecialRules{rules: file.Rules}, nil
}

// Len returns the number of rules.
func (sr *SpecialRules) Len() int {
	if sr == nil {
		return 0
	}
	return len(sr.rules)
}

func (r *SpecialRule) compile() error {
	if r.Speaker != "" {
		re, err := regexp.Compile(r.Speaker)
		if err != nil {
			return fmt.Errorf("speaker: %w", err)
		}
		r.speaker = re
	}
	switch r.SpeakerList {
	case "", SpeakerListCrystalium, SpeakerListHiragana, SpeakerListReverse:
	default:
		return fmt.Errorf("unknown speaker list %q", r.SpeakerList)
	}

	switch r.Kind {
	case KindRemove, KindReplace, KindQualify:
		if r.Target == "" {
			return fmt.Errorf("%s needs a target", r.Kind)
		}
	case KindReplacePattern, KindStripPrefix:
		if r.Pattern == "" {
			return fmt.Errorf("%s needs a pattern", r.Kind)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("pattern: %w", err)
		}
		r.pattern = re
	case KindDedupeClause:
		if r.Separator == "" {
			return fmt.Errorf("%s needs a separator", r.Kind)
		}
		if r.MinLength < 1 {
			r.MinLength = 1
		}
	default:
		return fmt.Errorf("unknown kind %q", r.Kind)
	}
	return nil
}

func (r *SpecialRule) matches(lists SpeakerLists, name, text string) bool {
	if r.speaker != nil && !r.speaker.MatchString(name) {
		return false
	}
	for _, excluded := range r.ExcludeSpeakers {
		if strings.Contains(name, excluded) {
			return false
		}
	}
	if r.TextContains != "" && !strings.Contains(text, r.TextContains) {
		return false
	}
	switch r.SpeakerList {
	case SpeakerListCrystalium:
		return lists.IsCrystalium(name)
	case SpeakerListHiragana:
		return lists.PrefersHiragana(name)
	case SpeakerListReverse:
		return lists.IsReversed(name)
	}
	return true
}

func (r *SpecialRule) apply(text string) string {
	switch r.Kind {
	case KindRemove:
		return strings.ReplaceAll(text, r.Target, "")
	case KindReplace:
		return strings.ReplaceAll(text, r.Target, r.Replacement)
	case KindReplacePattern:
		return r.pattern.ReplaceAllString(text, r.Replacement)
	case KindStripPrefix:
		for {
			loc := r.pattern.FindStringIndex(text)
			if loc == nil || loc[0] != 0 || loc[1] == 0 {
				return text
			}
			text = text[loc[1]:]
		}
	case KindDedupeClause:
		return dedupeClauses(text, r.Separator, r.MinLength)
	case KindQualify:
		return qualify(text, r.Target, r.Replacement, r.NotAfter, r.NotBefore)
	}
	return text
}

// Apply runs every rule whose trigger matches, in order. Each rule sees the
// output of the previous one.
func (sr *SpecialRules) Apply(lists SpeakerLists, name, text string) string {
	if sr == nil {
		return text
	}
	for i := range sr.rules {
		rule := &sr.rules[i]
		if rule.matches(lists, name, text) {
			text = rule.apply(text)
		}
	}
	return text
}

// dedupeClauses collapses a clause repeated right after a separator. At each
// position the shortest repeated clause wins. Clauses never span lines.
func dedupeClauses(text, separator string, minLength int) string {
	runes := []rune(text)
	sep := []rune(separator)
	out := make([]rune, 0, len(runes))

	for i := 0; i < len(runes); {
		matched := false
		for l := minLength; i+2*l+len(sep) <= len(runes); l++ {
			clause := runes[i : i+l]
			if clause[l-1] == '\n' {
				break
			}
			if !equalRunes(runes[i+l:i+l+len(sep)], sep) {
				continue
			}
			if equalRunes(runes[i+l+len(sep):i+2*l+len(sep)], clause) {
				out = append(out, clause...)
				i += 2*l + len(sep)
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, runes[i])
			i++
		}
	}
	return string(out)
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// qualify replaces target with replacement where it is not already part of
// a longer word.
func qualify(text, target, replacement string, notAfter, notBefore []string) string {
	var b strings.Builder
	rest := text
	consumed := 0
	for {
		i := strings.Index(rest, target)
		if i < 0 {
			b.WriteString(rest)
			return b.String()
		}
		before := text[:consumed+i]
		after := rest[i+len(target):]
		b.WriteString(rest[:i])
		if hasAnySuffix(before, notAfter) || hasAnyPrefix(after, notBefore) {
			b.WriteString(target)
		} else {
			b.WriteString(replacement)
		}
		consumed += i + len(target)
		rest = after
	}
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
