package runlog

import (
	"fmt"
	"strings"
	"time"
)

// JST is the fixed UTC+9 zone used for every human-facing timestamp, regardless
// of the host zone, so trails written on different machines sort together.
var JST = time.FixedZone("JST", 9*60*60)

const (
	// StampLayout formats the record timestamp used in both filename and body.
	// Example: 2025-08-30T21-31JST
	StampLayout = "2006-01-02T15-04JST"

	// ReportStampLayout formats the digest header timestamp.
	ReportStampLayout = "2006-01-02 15:04 JST"

	// Ext is the extension of record files written by this package.
	Ext = ".md"
)

// Placeholders substituted for missing sections so the parser never sees an empty one.
const (
	CommandsPlaceholder    = "(list the commands that were run here)"
	ResultsPlaceholder     = "(summarize results here)"
	NextActionsPlaceholder = "- describe follow-up work"
)

// Record is one run record as written to disk.
type Record struct {
	// When is the creation time; rendered in JST at minute precision.
	When time.Time

	// Label is the free-form run label, used verbatim in the filename.
	Label string

	// Repo is the name of the enclosing directory at creation time.
	Repo string

	// Summary is a one-line description of the run.
	Summary string

	// Intent describes why the run happened.
	Intent string

	// Results is optional; empty renders ResultsPlaceholder.
	Results string

	// NextActions is optional; empty renders NextActionsPlaceholder.
	NextActions string
}

// Stamp returns the JST minute-precision timestamp shared by filename and body.
func Stamp(t time.Time) string {
	return t.In(JST).Format(StampLayout)
}

// Filename returns "<stamp>-<label>.md". Names sort lexically by creation time.
func (r *Record) Filename() string {
	return fmt.Sprintf("%s-%s%s", Stamp(r.When), r.Label, Ext)
}

// Body renders the fixed record template.
func (r *Record) Body() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run Log - %s\n", r.Label)
	fmt.Fprintf(&b, "- When: %s\n", Stamp(r.When))
	fmt.Fprintf(&b, "- Repo: %s\n", r.Repo)
	fmt.Fprintf(&b, "- Summary: %s\n", r.Summary)

	writeSection(&b, "Intent", r.Intent, "")
	writeSection(&b, "Commands", "", CommandsPlaceholder)
	writeSection(&b, "Results", r.Results, ResultsPlaceholder)
	writeSection(&b, "Next actions", r.NextActions, NextActionsPlaceholder)

	return b.String()
}

func writeSection(b *strings.Builder, heading, content, placeholder string) {
	if strings.TrimSpace(content) == "" {
		content = placeholder
	}
	fmt.Fprintf(b, "\n## %s\n%s\n", heading, content)
}
