// Command verilib tracks verification status across a competitive
// programming library: dependency graphs, sharded result merging and
// documentation front matter.
package main

import (
	"os"

	"github.com/NielsdaWheelz/verilib/internal/cli/cobra"
	"github.com/NielsdaWheelz/verilib/internal/errors"
)

func main() {
	err := cobra.Execute(os.Stdout, os.Stderr)
	if err != nil {
		opts := errors.PrintOptions{
			Verbose: cobra.GetGlobalOpts().Verbose,
		}
		errors.PrintWithOptions(os.Stderr, err, opts)
		os.Exit(errors.ExitCode(err))
	}
}
