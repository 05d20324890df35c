package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qri-io/deepequal"
	"github.com/qri-io/deepequal/codegen"
)

// GenResult is the JSON output of the gen command.
type GenResult struct {
	Path string `json:"path"`
	Code string `json:"code"`
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	var exclude []string

	cmd := &cobra.Command{
		Use:   "gen <file>",
		Short: "Print a Go expression that rebuilds a document",
		Long: `Print a gofmt'd Go expression that evaluates to the value of a YAML or
JSON document, ready to paste into a test as an expected value.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(rootOpts, exclude, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "member or key names to leave out")

	return cmd
}

func runGen(rootOpts *RootOptions, exclude []string, path string, cmd *cobra.Command) error {
	doc, err := LoadDocument(path)
	if err != nil {
		return err
	}

	opts := []deepequal.Option{deepequal.WithLogger(rootOpts.logger(cmd))}
	if len(exclude) > 0 {
		opts = append(opts, deepequal.WithExcludedNames(exclude...))
	}
	tree, err := deepequal.NewTree(doc, opts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "building tree", err)
	}
	code, err := codegen.Generate(tree)
	if err != nil {
		return WrapExitError(ExitCommandError, "generating code", err)
	}

	w := cmd.OutOrStdout()
	if rootOpts.Format == "json" {
		return writeJSON(w, GenResult{Path: path, Code: code})
	}
	_, err = fmt.Fprintln(w, code)
	return err
}
