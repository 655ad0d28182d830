package correction

import (
	"regexp"
	"strings"
)

// GenderRule rewrites a pronoun in the translation depending on what the
// source text says about the referent.
type GenderRule struct {
	// SourceLacks, when set, must not match the source text.
	SourceLacks *regexp.Regexp
	// SourceHas, when set, must match the source text.
	SourceHas *regexp.Regexp
	From      string
	To        string
}

var femaleMarkers = regexp.MustCompile(`女|娘|嬢|母|妹|姉|婆|妃|姫|婦`)

// DefaultGenderRules turns the feminine third person pronoun back into the
// neutral one unless the source mentions a woman.
func DefaultGenderRules() []GenderRule {
	return []GenderRule{
		{SourceLacks: femaleMarkers, From: "她", To: "他"},
	}
}

func fixGender(rules []GenderRule, source, translated string) string {
	for _, rule := range rules {
		if rule.SourceLacks != nil && rule.SourceLacks.MatchString(source) {
			continue
		}
		if rule.SourceHas != nil && !rule.SourceHas.MatchString(source) {
			continue
		}
		translated = strings.ReplaceAll(translated, rule.From, rule.To)
	}
	return translated
}
