// Package assert adapts deepequal to testify-style test assertions. failures
// carry a report listing where the compared values differ
package assert

import (
	"fmt"
	"iter"
	"strings"

	"github.com/dustin/go-humanize"
	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qri-io/deepequal"
)

const (
	// MaxReportDifferences caps the number of lines in a report, including
	// the truncation marker
	MaxReportDifferences = 100
	// MaxValueLength caps each displayed value, in runes
	MaxValueLength = 80
	// MaxLineLength caps each report line, in runes
	MaxLineLength = 240
)

// Equal asserts that expected & actual are deeply equal
//
//	assert.Equal(t, want, got, deepequal.WithExcludedNames("UpdatedAt"))
func Equal(t tassert.TestingT, expected, actual interface{}, opts ...deepequal.Option) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	report, err := Report(deepequal.New(opts...).Differences(expected, actual))
	if err != nil {
		return tassert.Fail(t, "Deep comparison failed", err.Error())
	}
	if report != "" {
		return tassert.Fail(t, report)
	}
	return true
}

// NotEqual asserts that expected & actual differ in at least one way
func NotEqual(t tassert.TestingT, expected, actual interface{}, opts ...deepequal.Option) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	eq, err := deepequal.Equal(expected, actual, opts...)
	if err != nil {
		return tassert.Fail(t, "Deep comparison failed", err.Error())
	}
	if eq {
		return tassert.Fail(t, fmt.Sprintf("Should not be deeply equal: %s", deepequal.Formatter{}.Format(actual)))
	}
	return true
}

// MustEqual is like Equal but stops the test on failure
func MustEqual(t require.TestingT, expected, actual interface{}, opts ...deepequal.Option) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if !Equal(t, expected, actual, opts...) {
		t.FailNow()
	}
}

// Report renders a failure report for a sequence of differences: a header
// followed by one line per difference. it reads at most MaxReportDifferences+1
// differences, when there are more the last line is replaced by a marker.
// Report returns an empty string for an empty sequence
func Report(diffs iter.Seq2[*deepequal.Difference, error]) (string, error) {
	var lines []string
	truncated := false
	for d, err := range diffs {
		if err != nil {
			return "", err
		}
		if len(lines) == MaxReportDifferences {
			truncated = true
			break
		}
		lines = append(lines, formatLine(d))
	}
	if len(lines) == 0 {
		return "", nil
	}

	buf := &strings.Builder{}
	if truncated {
		lines = lines[:MaxReportDifferences-1]
		fmt.Fprintf(buf, "Not deeply equal, more than %s differences:\n", humanize.Comma(MaxReportDifferences))
	} else {
		fmt.Fprintf(buf, "Not deeply equal, %s %s:\n", humanize.Comma(int64(len(lines))), plural(len(lines), "difference", "differences"))
	}
	for _, l := range lines {
		buf.WriteString("\t")
		buf.WriteString(l)
		buf.WriteString("\n")
	}
	if truncated {
		fmt.Fprintf(buf, "\t... %d+ differences, the rest are omitted\n", MaxReportDifferences-1)
	}
	return buf.String(), nil
}

func formatLine(d *deepequal.Difference) string {
	line := string(d.Type) + " " + d.Format(MaxValueLength)
	// multi-line values would break the report layout
	line = strings.ReplaceAll(line, "\n", `\n`)
	return deepequal.Truncate(line, MaxLineLength)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
