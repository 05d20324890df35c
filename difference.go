package deepequal

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffType categorizes a Difference
type DiffType string

const (
	// DTValue is a mismatch between two leaf values
	DTValue = DiffType("~")
	// DTKind means the two nodes are different kinds of thing, eg: an object
	// and a null
	DTKind = DiffType("!")
	// DTCount means the nodes have a different number of children
	DTCount = DiffType("#")
	// DTMissing is an expected child that's absent from actual
	DTMissing = DiffType("-")
	// DTUnexpected is an actual child that's absent from expected
	DTUnexpected = DiffType("+")
	// DTAlias means one side shares an instance where the other side doesn't
	DTAlias = DiffType("&")
	// DTPath means the nodes being compared sit at different paths. this only
	// happens with custom spawners or filters that move nodes around
	DTPath = DiffType("@")
)

// placeholders in a Difference message template
const (
	expectedPlaceholder = "{expected}"
	actualPlaceholder   = "{actual}"
)

// Difference is one mismatch between an expected & an actual tree
type Difference struct {
	Type DiffType
	// Expected & Actual are the nodes being compared, never nil
	Expected *Node
	Actual   *Node
	// display strings for the two values, substituted into the message
	ExpectedDisplay string
	ActualDisplay   string

	path     EdgePath
	template string
}

func newDifference(typ DiffType, expected, actual *Node, path EdgePath, template, expectedDisplay, actualDisplay string) *Difference {
	if expected == nil || actual == nil {
		structuralPanic("newDifference", "difference at %s needs both an expected and an actual node", path)
	}
	return &Difference{
		Type:            typ,
		Expected:        expected,
		Actual:          actual,
		ExpectedDisplay: expectedDisplay,
		ActualDisplay:   actualDisplay,
		path:            path,
		template:        template,
	}
}

// Path is where in the tree the difference was found
func (d *Difference) Path() EdgePath { return d.path }

// Template returns the message with {expected} & {actual} placeholders
func (d *Difference) Template() string { return d.template }

// Message renders the difference's message
func (d *Difference) Message() string {
	return d.MessageWith(d.ExpectedDisplay, d.ActualDisplay)
}

// MessageWith renders the message with the given display strings in place of
// the difference's own
func (d *Difference) MessageWith(expected, actual string) string {
	return strings.NewReplacer(expectedPlaceholder, expected, actualPlaceholder, actual).Replace(d.template)
}

func (d *Difference) String() string {
	return d.path.String() + ": " + d.Message()
}

// Format renders the difference like String, truncating each display value to
// maxValueLen runes. maxValueLen <= 0 disables truncation
func (d *Difference) Format(maxValueLen int) string {
	return d.path.String() + ": " + d.MessageWith(Truncate(d.ExpectedDisplay, maxValueLen), Truncate(d.ActualDisplay, maxValueLen))
}

// Detail returns a unified line diff for differences between two multi-line
// strings, and an empty string otherwise
func (d *Difference) Detail() string {
	if d.Type != DTValue {
		return ""
	}
	a, aok := d.Expected.Value().(string)
	b, bok := d.Actual.Value().(string)
	if !aok || !bok || !(strings.Contains(a, "\n") || strings.Contains(b, "\n")) {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err != nil {
		return ""
	}
	return diff
}

// MarshalJSON implements a custom JSON Marshaller, encoding a difference as a
// compact array: [type, path, expected, actual, message]. paths like <root>
// are left unescaped
func (d *Difference) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]interface{}{d.Type, d.path.String(), d.ExpectedDisplay, d.ActualDisplay, d.Message()}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Ellipsis marks truncated text
const Ellipsis = "…"

// Truncate shortens s to at most n runes, replacing the tail with an
// ellipsis. n <= 0 returns s unchanged
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + Ellipsis
}
