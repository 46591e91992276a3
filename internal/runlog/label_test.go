package runlog

import (
	"testing"
	"time"
)

func TestLabelFromStem(t *testing.T) {
	tests := []struct {
		name string
		stem string
		want string
	}{
		{name: "record stamp", stem: "2025-08-30T21-31JST-phase4-sustain-measure-kickoff", want: "phase4-sustain-measure-kickoff"},
		{name: "record stamp keeps later JST", stem: "2025-08-30T21-31JST-a-JST-b", want: "a-JST-b"},
		{name: "jst separator", stem: "2025-08-30-JST-notes", want: "notes"},
		{name: "jst separator first occurrence", stem: "x-JST-a-JST-b", want: "a-JST-b"},
		{name: "stamp not at start", stem: "draft-2025-08-30T21-31JST-x", want: "30T21-31JST-x"},
		{name: "date segments", stem: "2025-08-30-release-notes", want: "release-notes"},
		{name: "exactly four segments", stem: "a-b-c-d", want: "d"},
		{name: "three segments", stem: "2025-08-30", want: "2025-08-30"},
		{name: "no hyphen", stem: "notes", want: "notes"},
		{name: "trailing hyphen", stem: "a-b-c-", want: ""},
		{name: "empty", stem: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LabelFromStem(tt.stem); got != tt.want {
				t.Errorf("LabelFromStem(%q) = %q, want %q", tt.stem, got, tt.want)
			}
		})
	}
}

func TestLabelMatchers_Independent(t *testing.T) {
	matchers := make(map[string]labelMatcher, len(labelMatchers))
	for _, m := range labelMatchers {
		matchers[m.name] = m
	}

	stamp, ok := matchers["stamp-prefix"]
	if !ok {
		t.Fatal("stamp-prefix matcher missing")
	}
	if _, ok := stamp.match("2025-08-30-release-notes"); ok {
		t.Error("stamp-prefix should not apply to a date-only stem")
	}
	if got, _ := stamp.match("2025-08-30T21-31JST-kickoff"); got != "kickoff" {
		t.Errorf("stamp-prefix = %q, want kickoff", got)
	}

	jst, ok := matchers["jst-separator"]
	if !ok {
		t.Fatal("jst-separator matcher missing")
	}
	if _, ok := jst.match("2025-08-30-release-notes"); ok {
		t.Error("jst-separator should not apply to a date-only stem")
	}

	seg, ok := matchers["date-segments"]
	if !ok {
		t.Fatal("date-segments matcher missing")
	}
	// Applied alone, the segment rule mis-splits the record stamp; order matters.
	if got, _ := seg.match("2025-08-30T21-31JST-kickoff"); got != "31JST-kickoff" {
		t.Errorf("date-segments on JST stem = %q, want %q", got, "31JST-kickoff")
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"docs/run/2025-08-30T21-31JST-x.md", "2025-08-30T21-31JST-x"},
		{"/abs/a.b.md", "a.b"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := Stem(tt.path); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLabelFromStem_WriterRoundTrip(t *testing.T) {
	for _, label := range []string{"flaky-fix", "smoke", "a-b-c-d", "JST-notes"} {
		r := Record{When: time.Date(2025, 8, 30, 12, 31, 0, 0, time.UTC), Label: label}
		if got := LabelFromStem(Stem(r.Filename())); got != label {
			t.Errorf("LabelFromStem(%q) = %q, want %q", r.Filename(), got, label)
		}
	}
}
