package runlog

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Sentinel values used when a field cannot be extracted.
const (
	ReadErrorSummary = "(file read error)"
	NoSummary        = "(no Summary)"
	NoWhen           = "(no When)"
)

// Entry is a parsed run record. It is derived, in-memory only, and owned by the
// aggregation pass that produced it.
type Entry struct {
	File        string      `json:"file"`
	Summary     string      `json:"summary"`
	ChangeClass ChangeClass `json:"change_class"`
	When        string      `json:"when"`
	Label       string      `json:"label"`

	// Degraded is set when the file could not be read and the entry carries
	// sentinel values instead of extracted ones.
	Degraded bool `json:"degraded,omitempty"`
}

// Fields holds values extracted from record text.
type Fields struct {
	Summary     string
	When        string
	ChangeClass ChangeClass
}

var (
	// summaryPattern matches "- Summary: <value>" on its own line.
	summaryPattern = regexp.MustCompile(`(?m)^- +Summary:[ \t]*(.+)$`)

	// whenPattern matches "- When: <value>" on its own line.
	whenPattern = regexp.MustCompile(`(?m)^- +When:[ \t]*(.+)$`)

	// changeClassPattern matches a "## Change Class" heading followed, anywhere
	// later in the text, by a standalone A/B/C token. Case-insensitive.
	changeClassPattern = regexp.MustCompile(`(?ims)^##\s*Change Class.*?\b([ABC])\b`)
)

// Extract pulls Summary, When and Change Class out of record text.
// Each field is searched independently across the whole text; a missing field
// gets its sentinel (or DefaultClass) and never blocks the others.
func Extract(text string) Fields {
	f := Fields{
		Summary:     NoSummary,
		When:        NoWhen,
		ChangeClass: DefaultClass,
	}

	if v, ok := firstGroup(summaryPattern, text); ok {
		f.Summary = v
	}
	if v, ok := firstGroup(whenPattern, text); ok {
		f.When = v
	}
	if v, ok := firstGroup(changeClassPattern, text); ok {
		f.ChangeClass = ParseClass(v)
	}

	return f
}

// firstGroup returns the trimmed first capture group of the first match.
// A match whose value trims to empty counts as absent.
func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// Decode converts raw bytes to text, replacing invalid UTF-8 sequences with U+FFFD.
func Decode(data []byte) string {
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

// ParseFile reads and parses the record at path. The returned Entry is always
// usable: when the file cannot be read, a degraded entry is returned together
// with the read error so callers can log it and carry on.
func ParseFile(path, cwd string) (Entry, error) {
	stem := Stem(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return Degraded(path, cwd), err
	}

	f := Extract(Decode(data))
	return Entry{
		File:        DisplayPath(path, cwd),
		Summary:     f.Summary,
		ChangeClass: f.ChangeClass,
		When:        f.When,
		Label:       LabelFromStem(stem),
	}, nil
}

// Degraded returns the sentinel entry used for an unreadable record.
func Degraded(path, cwd string) Entry {
	return Entry{
		File:        DisplayPath(path, cwd),
		Summary:     ReadErrorSummary,
		ChangeClass: DefaultClass,
		When:        "",
		Label:       Stem(path),
		Degraded:    true,
	}
}

// DisplayPath renders path relative to cwd when path lies inside cwd,
// and as an absolute path otherwise.
func DisplayPath(path, cwd string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if cwd == "" {
		return abs
	}
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(absCwd, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return rel
}
