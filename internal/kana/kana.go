// Package kana implements the kana transformations applied to dialogue text:
// script conversion, script swapping and katakana heuristics.
package kana

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/at-ishikawa/dialogfix/internal/codec"
)

// Script is one of the two syllabaries.
type Script int

const (
	Hiragana Script = iota
	Katakana
)

const (
	hiraganaFirst rune = 'ぁ'
	hiraganaLast  rune = 'ゖ'
	katakanaFirst rune = 'ァ'
	katakanaLast  rune = 'ヺ'
	scriptOffset       = katakanaFirst - hiraganaFirst

	// DefaultKatakanaThreshold is the katakana count above which a line
	// without hiragana is treated as all-katakana.
	DefaultKatakanaThreshold = 10
)

// Converter maps characters between the two syllabaries with a 1:1 table.
// Characters outside the table pass through unchanged.
type Converter struct {
	toKatakana map[rune]rune
	toHiragana map[rune]rune
}

// NewConverter builds the standard table plus extra single-rune pairs of
// the form {hiragana, katakana}. Pairs that are not single runes are ignored.
func NewConverter(extra ...[2]string) *Converter {
	c := &Converter{
		toKatakana: make(map[rune]rune),
		toHiragana: make(map[rune]rune),
	}
	for r := hiraganaFirst; r <= hiraganaLast; r++ {
		c.add(r, r+scriptOffset)
	}
	c.add('ゝ', 'ヽ')
	c.add('ゞ', 'ヾ')
	for _, pair := range extra {
		if utf8.RuneCountInString(pair[0]) != 1 || utf8.RuneCountInString(pair[1]) != 1 {
			continue
		}
		h, _ := utf8.DecodeRuneInString(pair[0])
		k, _ := utf8.DecodeRuneInString(pair[1])
		c.add(h, k)
	}
	return c
}

func (c *Converter) add(hira, kata rune) {
	c.toKatakana[hira] = kata
	c.toHiragana[kata] = hira
}

// Convert maps every character of the other syllabary to target.
func (c *Converter) Convert(text string, target Script) string {
	table := c.toHiragana
	if target == Katakana {
		table = c.toKatakana
	}
	return strings.Map(func(r rune) rune {
		if mapped, ok := table[r]; ok {
			return mapped
		}
		return r
	}, text)
}

// Reverse swaps hiragana and katakana character by character. Used for
// speakers whose lines are written in the opposite script.
func (c *Converter) Reverse(text string) string {
	return strings.Map(func(r rune) rune {
		if mapped, ok := c.toKatakana[r]; ok {
			return mapped
		}
		if mapped, ok := c.toHiragana[r]; ok {
			return mapped
		}
		return r
	}, text)
}

var defaultConverter = NewConverter()

// Convert converts text with the standard table.
func Convert(text string, target Script) string {
	return defaultConverter.Convert(text, target)
}

// Reverse swaps scripts with the standard table.
func Reverse(text string) string {
	return defaultConverter.Reverse(text)
}

// IsHiragana reports whether r is a hiragana letter.
func IsHiragana(r rune) bool {
	return r >= hiraganaFirst && r <= hiraganaLast
}

// IsKatakana reports whether r is a katakana letter.
func IsKatakana(r rune) bool {
	return r >= katakanaFirst && r <= katakanaLast
}

// CountKatakana counts katakana letters in text.
func CountKatakana(text string) int {
	count := 0
	for _, r := range text {
		if IsKatakana(r) {
			count++
		}
	}
	return count
}

// HasHiragana reports whether text contains any hiragana letter.
func HasHiragana(text string) bool {
	return strings.IndexFunc(text, IsHiragana) >= 0
}

// IsAllKatakanaLike reports whether a line should be normalized to hiragana:
// the speaker prefers hiragana, or the text has no hiragana and more than
// threshold katakana letters.
func IsAllKatakanaLike(prefersHiragana bool, text string, threshold int) bool {
	if prefersHiragana {
		return true
	}
	return text != "" && !HasHiragana(text) && CountKatakana(text) > threshold
}

const katakanaClass = `ァ-ヺ・ー`

var (
	leadingKatakana  = regexp.MustCompile(`^([` + katakanaClass + `]+)[^` + katakanaClass + `]+$`)
	trailingKatakana = regexp.MustCompile(`^[^` + katakanaClass + `]+([` + katakanaClass + `]+)$`)
	allKatakana      = regexp.MustCompile(`^[` + katakanaClass + `]+$`)
)

// ExtractKatakana returns the katakana run of a mixed-script name: a leading
// run, a trailing run or the whole name, tried in that order. It returns an
// empty string when none applies.
func ExtractKatakana(name string) string {
	if m := leadingKatakana.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	if m := trailingKatakana.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	if allKatakana.MatchString(name) {
		return name
	}
	return ""
}

// DefaultSkipPattern matches text made only of punctuation, symbols, digits
// and spaces.
var DefaultSkipPattern = regexp.MustCompile(`^[\p{P}\p{S}\p{N}\s]*$`)

// CanSkipTranslation reports whether the translator can be bypassed: once
// placeholder tokens are stripped, the rest is empty or matches one of the
// patterns.
func CanSkipTranslation(text string, patterns ...*regexp.Regexp) bool {
	rest := strings.TrimSpace(codec.StripTokens(text))
	if rest == "" {
		return true
	}
	for _, p := range patterns {
		if p.MatchString(rest) {
			return true
		}
	}
	return false
}
