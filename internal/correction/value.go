package correction

import (
	"regexp"

	"golang.org/x/text/width"

	"github.com/at-ishikawa/dialogfix/internal/codec"
)

var valuePattern = regexp.MustCompile(`[0-9０-９]+(?:[,.，．][0-9０-９]+)*[%％]?`)

// protectValues replaces numeric values with value tokens so the translator
// cannot reformat them. Restoring writes the half-width form.
func protectValues(text string) (string, *codec.CodeTable) {
	ct := codec.NewValueTable()
	coded := valuePattern.ReplaceAllStringFunc(text, func(value string) string {
		token, ok := ct.Add(value, width.Narrow.String(value))
		if !ok {
			return value
		}
		return token
	})
	return coded, ct
}
