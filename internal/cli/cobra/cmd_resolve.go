package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/verilib/internal/commands"
)

func newResolveCmd() *cobra.Command {
	var opts commands.ResolveOpts

	cmd := &cobra.Command{
		Use:   "resolve [dir...]",
		Short: "Scan the repository and write the verification input",
		Long: `Scan source files, resolve their dependencies and write input.json.

Arguments:
  dir    directories to scan, relative to the current directory
         (default: the whole repository)

Behavior:
  - files are matched by extension against the registered languages
  - the data and docs output directories are never scanned
  - verification files are those declaring a PROBLEM or other verifier`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return err
			}
			ctx, cancel := interruptContext()
			defer cancel()

			opts.Dirs = args
			return commands.Resolve(ctx, newDeps(args), cwd, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Include, "include", "I", nil, "extra C++ include directory (repeatable)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "input file to write, or - for stdout")

	return cmd
}
