package deepequal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// FormatPrettyString is a convenice wrapper that outputs to a string instead of
// an io.Writer
func FormatPrettyString(diffs []*Difference, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatPretty(buf, diffs, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const colorClose = "\x1b[0m"

var diffColors = map[DiffType]string{
	DTValue:      "\x1b[34m", // blue
	DTKind:       "\x1b[33m", // yellow
	DTCount:      "\x1b[37m", // neutral
	DTMissing:    "\x1b[31m", // red
	DTUnexpected: "\x1b[32m", // green
	DTAlias:      "\x1b[35m", // magenta
	DTPath:       "\x1b[33m", // yellow
}

// FormatPretty writes a text report to w, one difference per line prefixed
// with its type symbol. if colorTTY is true lines are colored by type:
// red "-" for missing children
// green "+" for unexpected children
// blue "~" for value changes, followed by an inline character diff when both
// values are single-line strings
// multi-line string changes are followed by a unified line diff
func FormatPretty(w io.Writer, diffs []*Difference, colorTTY bool) error {
	var dmp *diffmatchpatch.DiffMatchPatch
	if colorTTY {
		dmp = diffmatchpatch.New()
	}

	for _, d := range diffs {
		color, closeColor := "", ""
		if colorTTY {
			color, closeColor = diffColors[d.Type], colorClose
		}
		if _, err := fmt.Fprintf(w, "%s%s %s%s\n", color, d.Type, d.String(), closeColor); err != nil {
			return err
		}

		if detail := d.Detail(); detail != "" {
			if _, err := io.WriteString(w, indent(detail, "    ")); err != nil {
				return err
			}
			continue
		}
		if dmp != nil && d.Type == DTValue {
			a, aok := d.Expected.Value().(string)
			b, bok := d.Actual.Value().(string)
			if aok && bok {
				inline := dmp.DiffPrettyText(dmp.DiffMain(a, b, false))
				if _, err := fmt.Fprintf(w, "    %s\n", inline); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	buf := &strings.Builder{}
	for _, l := range lines {
		if l == "" {
			continue
		}
		buf.WriteString(prefix)
		buf.WriteString(l)
	}
	if !strings.HasSuffix(s, "\n") {
		buf.WriteByte('\n')
	}
	return buf.String()
}

// FormatJSON writes diffs to w as a JSON array of compact difference arrays
func FormatJSON(w io.Writer, diffs []*Difference) error {
	if diffs == nil {
		diffs = []*Difference{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(diffs)
}

// FormatPrettyStats prints a string of stats info
func FormatPrettyStats(diffStat *Stats) string {
	return formatStats(diffStat, false)
}

// FormatPrettyStatsColor prints a string of stats info with ANSI colors
func FormatPrettyStatsColor(diffStat *Stats) string {
	return formatStats(diffStat, true)
}

func formatStats(ds *Stats, color bool) string {
	var (
		neutralColor, insertColor, deleteColor, updateColor, closeColor string
	)

	if ds == nil {
		return "<nil>"
	}

	if color {
		neutralColor = diffColors[DTCount]
		insertColor = diffColors[DTUnexpected]
		deleteColor = diffColors[DTMissing]
		updateColor = diffColors[DTValue]
		closeColor = colorClose
	}

	buf := &bytes.Buffer{}

	elsColor := insertColor
	change := ds.NodeChange()
	sign := "+"
	if change < 0 {
		elsColor = deleteColor
		sign = ""
	} else if change == 0 {
		elsColor = neutralColor
		sign = ""
	}

	buf.WriteString(fmt.Sprintf("%s%s%s %s%s%s%s.",
		elsColor, sign, humanize.Comma(int64(change)), closeColor,
		neutralColor, plural(change, "node", "nodes"), closeColor,
	))

	buf.WriteString(fmt.Sprintf(" %s%s %s.%s", updateColor, humanize.Comma(int64(ds.Values)), plural(ds.Values, "value", "values"), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%s missing.%s", deleteColor, humanize.Comma(int64(ds.Missing)), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%s unexpected.%s", insertColor, humanize.Comma(int64(ds.Unexpected)), closeColor))

	if other := ds.Kinds + ds.Counts + ds.Aliases + ds.Paths; other > 0 {
		buf.WriteString(fmt.Sprintf(" %s%s structural.%s", neutralColor, humanize.Comma(int64(other)), closeColor))
	}

	buf.WriteRune('\n')

	return buf.String()
}

func plural(n int, one, many string) string {
	if n == 1 || n == -1 {
		return one
	}
	return many
}
