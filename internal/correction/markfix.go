package correction

import (
	"strings"

	"github.com/at-ishikawa/dialogfix/internal/codec"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
)

// markEscape stands in for a literal marker in the source text while the
// pipeline runs.
const markEscape = string(codec.MarkEscape)

// escapeMarks hides literal markers so that markers added by the pipeline
// can be told apart from the ones the speaker wrote.
func escapeMarks(text string) string {
	return strings.ReplaceAll(text, ruletable.ShortNameMarker, markEscape)
}

// restoreMarks drops the markers added by the pipeline and brings back the
// escaped ones.
func restoreMarks(text string) string {
	text = strings.ReplaceAll(text, ruletable.ShortNameMarker, "")
	return strings.ReplaceAll(text, markEscape, ruletable.ShortNameMarker)
}
