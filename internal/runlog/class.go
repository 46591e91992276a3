package runlog

import "strings"

// ChangeClass is a coarse impact tier assigned to a run record.
type ChangeClass string

const (
	ClassA ChangeClass = "A" // highest impact
	ClassB ChangeClass = "B"
	ClassC ChangeClass = "C" // lowest impact, and the default
)

// DefaultClass is assigned to records without a recognizable Change Class section.
// This under-counts A/B for malformed records; report consumers rely on it.
const DefaultClass = ClassC

// Classes lists all change classes in report order.
var Classes = []ChangeClass{ClassA, ClassB, ClassC}

// ParseClass resolves a single letter (any case) to a ChangeClass.
// Anything else resolves to DefaultClass.
func ParseClass(s string) ChangeClass {
	switch ChangeClass(strings.ToUpper(strings.TrimSpace(s))) {
	case ClassA:
		return ClassA
	case ClassB:
		return ClassB
	default:
		return DefaultClass
	}
}

// Counts tallies entries per change class.
type Counts struct {
	A int `json:"a"`
	B int `json:"b"`
	C int `json:"c"`
}

// Add increments the counter for class.
func (c *Counts) Add(class ChangeClass) {
	switch class {
	case ClassA:
		c.A++
	case ClassB:
		c.B++
	default:
		c.C++
	}
}

// Total returns A+B+C.
func (c Counts) Total() int {
	return c.A + c.B + c.C
}

// CountEntries tallies the change classes of entries.
func CountEntries(entries []Entry) Counts {
	var c Counts
	for _, e := range entries {
		c.Add(e.ChangeClass)
	}
	return c
}
