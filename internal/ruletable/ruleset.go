package ruletable

import (
	"strings"
)

// RuleSet is an immutable snapshot of every table for one target language.
// Mutations produce a new RuleSet; readers keep using the one they hold.
type RuleSet struct {
	TargetLanguage string
	Variant        string

	Overwrite        Table
	ChName           Table
	AfterTranslation Table
	Main             Table
	Player           Table
	Temp             Table
	// Combine is Temp, then Player, then Main with earlier tables winning.
	Combine Table

	OverwriteTemp Table
	SubtitleTemp  Table

	Source SourceRuleSet

	overwriteStatic Table
	subtitleStatic  Table
}

// SourceRuleSet holds the source-script tables.
type SourceRuleSet struct {
	Ignore         Table
	Subtitle       Table
	JP1            Table
	JP2            Table
	Kana           Table
	ListHira       Table
	ListReverse    Table
	ListCrystalium Table
}

// ResolveName looks a name up in Combine, trying the short-name marker form
// as well. The marker is stripped from the result. A marked entry added by
// the user wins over the bare form.
func (rs *RuleSet) ResolveName(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	marked, markedOK := rs.Combine.Lookup(name + ShortNameMarker)
	if markedOK && marked.Origin == OriginTemp {
		return strings.ReplaceAll(marked.To, ShortNameMarker, ""), true
	}
	if e, ok := rs.Combine.Lookup(name); ok {
		return e.To, true
	}
	if markedOK {
		return strings.ReplaceAll(marked.To, ShortNameMarker, ""), true
	}
	return "", false
}

// ShouldSkip reports whether a line matches the ignore table. An ignore
// entry matches when name+text contains its From and its To is either empty
// or the line's channel code.
func (rs *RuleSet) ShouldSkip(channelCode, name, text string) bool {
	haystack := name + text
	for _, e := range rs.Source.Ignore.entries {
		if e.To != "" && e.To != channelCode {
			continue
		}
		if strings.Contains(haystack, e.From) {
			return true
		}
	}
	return false
}

// IsReversed reports whether the speaker renders kana in swapped script.
func (rs *RuleSet) IsReversed(name string) bool {
	_, ok := rs.Source.ListReverse.FindIn(name)
	return ok
}

// PrefersHiragana reports whether the speaker is flagged to be normalized to
// hiragana.
func (rs *RuleSet) PrefersHiragana(name string) bool {
	_, ok := rs.Source.ListHira.FindIn(name)
	return ok
}

// IsCrystalium reports whether the speaker belongs to the Crystarium list.
func (rs *RuleSet) IsCrystalium(name string) bool {
	_, ok := rs.Source.ListCrystalium.FindIn(name)
	return ok
}

func (rs *RuleSet) clone() *RuleSet {
	c := *rs
	return &c
}

func (rs *RuleSet) recombine() {
	rs.Combine = Combine(rs.Temp, rs.Player, rs.Main)
	rs.Overwrite = Combine(rs.OverwriteTemp, rs.overwriteStatic)
	rs.Source.Subtitle = Combine(rs.SubtitleTemp, rs.subtitleStatic)
}
