package runlog

import (
	"fmt"
	"strings"
	"time"
)

// DefaultNote is the explanatory footer of every digest block.
const DefaultNote = "> Note: run logs without a Change Class are counted as **C** by default."

// NoRecentLine replaces the recent list when no records fall inside the window.
const NoRecentLine = "- (no recent run logs found)"

// Digest is one weekly report block before rendering.
type Digest struct {
	GeneratedAt time.Time
	Repo        string
	WindowDays  int
	RecentLimit int

	// Entries are all included records, newest first.
	Entries []Entry
}

// Counts tallies the digest's entries per change class.
func (d *Digest) Counts() Counts {
	return CountEntries(d.Entries)
}

// Recent returns at most RecentLimit entries, newest first.
func (d *Digest) Recent() []Entry {
	if d.RecentLimit >= 0 && len(d.Entries) > d.RecentLimit {
		return d.Entries[:d.RecentLimit]
	}
	return d.Entries
}

// Render formats the block. The result ends with a horizontal rule and a
// newline so blocks can be stacked by plain concatenation.
func (d *Digest) Render() string {
	counts := d.Counts()

	lines := []string{
		fmt.Sprintf("## Weekly Health – %s", d.GeneratedAt.In(JST).Format(ReportStampLayout)),
		fmt.Sprintf("- Repo: **%s**", d.Repo),
		fmt.Sprintf("- Run Logs (%dd): **%d**  | A=%d  B=%d  C=%d",
			d.WindowDays, len(d.Entries), counts.A, counts.B, counts.C),
		"",
		fmt.Sprintf("### Recent Logs (up to %d)", d.RecentLimit),
	}

	for _, e := range d.Recent() {
		lines = append(lines, RecentLine(e))
	}
	if len(d.Entries) == 0 {
		lines = append(lines, NoRecentLine)
	}

	lines = append(lines, "", DefaultNote, "", "---", "")
	return strings.Join(lines, "\n")
}

// RecentLine renders one entry of the recent list.
func RecentLine(e Entry) string {
	return fmt.Sprintf("- %s — `%s` — %s — %s", e.When, e.Label, e.Summary, e.File)
}
