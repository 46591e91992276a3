package runlog

import (
	"path/filepath"
	"regexp"
	"strings"
)

// stampPrefix matches the timestamp prefix written by Record.Filename,
// e.g. "2025-08-30T21-31JST-" in 2025-08-30T21-31JST-phase4-kickoff.
var stampPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}-\d{2}JST-`)

// StampSeparator marks the end of a hand-written JST prefix, e.g.
// 2025-08-30-JST-phase4-kickoff.
const StampSeparator = "-JST-"

// labelMatcher extracts a label from a filename stem, reporting whether it applied.
type labelMatcher struct {
	name  string
	match func(stem string) (string, bool)
}

// labelMatchers are tried in order; the first that applies wins.
// They cover the current and the historical filename conventions:
//   - 2025-08-30T21-31JST-phase4-kickoff  -> phase4-kickoff
//   - 2025-08-30-JST-phase4-kickoff       -> phase4-kickoff
//   - 2025-08-30-phase4-kickoff           -> phase4-kickoff
var labelMatchers = []labelMatcher{
	{name: "stamp-prefix", match: matchStampPrefix},
	{name: "jst-separator", match: matchStampSeparator},
	{name: "date-segments", match: matchDateSegments},
}

// matchStampPrefix returns everything after a leading record timestamp.
func matchStampPrefix(stem string) (string, bool) {
	loc := stampPrefix.FindStringIndex(stem)
	if loc == nil {
		return "", false
	}
	return stem[loc[1]:], true
}

// matchStampSeparator returns everything after the first "-JST-".
func matchStampSeparator(stem string) (string, bool) {
	_, after, ok := strings.Cut(stem, StampSeparator)
	return after, ok
}

// matchDateSegments returns everything after the first three hyphen-separated
// segments when there are at least four.
func matchDateSegments(stem string) (string, bool) {
	parts := strings.SplitN(stem, "-", 4)
	if len(parts) < 4 {
		return "", false
	}
	return parts[3], true
}

// LabelFromStem derives the human-friendly label from a filename stem,
// falling back to the stem itself.
func LabelFromStem(stem string) string {
	for _, m := range labelMatchers {
		if label, ok := m.match(stem); ok {
			return label
		}
	}
	return stem
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
