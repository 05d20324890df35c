package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/qri-io/deepequal"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	Config         string
	Exclude        []string
	FloatTolerance float64
	TimeTolerance  time.Duration
	Color          string
	Stats          bool
}

// DiffReport is the JSON output of diff when stats are requested.
type DiffReport struct {
	Differences []*deepequal.Difference `json:"differences"`
	Stats       *deepequal.Stats        `json:"stats,omitempty"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <expected> <actual>",
		Short: "Report the differences between two documents",
		Long: `Compare two YAML or JSON documents and print every difference.

Exits with code 1 when the documents differ, 2 on errors.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "comparison config file (yaml)")
	cmd.Flags().StringSliceVarP(&opts.Exclude, "exclude", "x", nil, "member or key names to leave out of the comparison")
	cmd.Flags().Float64Var(&opts.FloatTolerance, "float-tolerance", 0, "maximum difference between equal floats")
	cmd.Flags().DurationVar(&opts.TimeTolerance, "time-tolerance", 0, "maximum difference between equal times")
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "colorize text output (auto|always|never)")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "print comparison statistics")

	return cmd
}

func runDiff(rootOpts *RootOptions, opts *DiffOptions, args []string, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	log := rootOpts.logger(cmd)

	color, err := useColor(opts.Color, w)
	if err != nil {
		return err
	}

	fc := &deepequal.FileConfig{}
	if opts.Config != "" {
		if fc, err = deepequal.LoadConfig(opts.Config); err != nil {
			return WrapExitError(ExitCommandError, "loading config", err)
		}
		log.Debug("loaded config", "path", opts.Config)
	}
	fc.Exclude = append(fc.Exclude, opts.Exclude...)
	if cmd.Flags().Changed("float-tolerance") {
		fc.Tolerance.Float64 = &opts.FloatTolerance
	}
	if cmd.Flags().Changed("time-tolerance") {
		fc.Tolerance.Time = opts.TimeTolerance.String()
	}

	diffOpts, err := fc.Options()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}
	stats := &deepequal.Stats{}
	diffOpts = append(diffOpts, deepequal.WithLogger(log), deepequal.OptionSetStats(stats))

	expected, err := LoadDocument(args[0])
	if err != nil {
		return err
	}
	actual, err := LoadDocument(args[1])
	if err != nil {
		return err
	}

	var diffs []*deepequal.Difference
	for d, err := range deepequal.New(diffOpts...).Differences(expected, actual) {
		if err != nil {
			return WrapExitError(ExitCommandError, "comparing documents", err)
		}
		diffs = append(diffs, d)
		if fc.MaxDifferences > 0 && len(diffs) == fc.MaxDifferences {
			log.Debug("difference limit reached", "limit", fc.MaxDifferences)
			break
		}
	}
	log.Debug("compared documents", "differences", len(diffs), "nodes", stats.Expected)

	if err := writeDiffs(w, rootOpts.Format, diffs, opts.Stats, stats, color); err != nil {
		return WrapExitError(ExitCommandError, "writing output", err)
	}

	if len(diffs) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("documents differ: %d %s", len(diffs), pluralize(len(diffs), "difference", "differences")))
	}
	return nil
}

func writeDiffs(w io.Writer, format string, diffs []*deepequal.Difference, withStats bool, stats *deepequal.Stats, color bool) error {
	if format == "json" {
		if !withStats {
			return deepequal.FormatJSON(w, diffs)
		}
		if diffs == nil {
			diffs = []*deepequal.Difference{}
		}
		return writeJSON(w, DiffReport{Differences: diffs, Stats: stats})
	}

	if err := deepequal.FormatPretty(w, diffs, color); err != nil {
		return err
	}
	if withStats {
		s := deepequal.FormatPrettyStats(stats)
		if color {
			s = deepequal.FormatPrettyStatsColor(stats)
		}
		_, err := fmt.Fprint(w, s)
		return err
	}
	return nil
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
