package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qri-io/deepequal"
)

// HashResult is the JSON output of the hash command.
type HashResult struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	var exclude []string

	cmd := &cobra.Command{
		Use:   "hash <file>",
		Short: "Print the structural hash of a document",
		Long: `Print a 64-bit structural hash of a YAML or JSON document.

Documents that compare equal hash the same, regardless of map key order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(rootOpts, exclude, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "member or key names to leave out of the hash")

	return cmd
}

func runHash(rootOpts *RootOptions, exclude []string, path string, cmd *cobra.Command) error {
	doc, err := LoadDocument(path)
	if err != nil {
		return err
	}

	opts := []deepequal.Option{deepequal.WithLogger(rootOpts.logger(cmd))}
	if len(exclude) > 0 {
		opts = append(opts, deepequal.WithExcludedNames(exclude...))
	}
	sum, err := deepequal.Hash(doc, opts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "hashing "+path, err)
	}

	w := cmd.OutOrStdout()
	if rootOpts.Format == "json" {
		return writeJSON(w, HashResult{Path: path, Hash: fmt.Sprintf("%016x", sum)})
	}
	_, err = fmt.Fprintf(w, "%016x  %s\n", sum, path)
	return err
}
