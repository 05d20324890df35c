// Command deepequal compares, hashes & reproduces YAML and JSON documents
package main

import (
	"fmt"
	"os"

	"github.com/qri-io/deepequal/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
