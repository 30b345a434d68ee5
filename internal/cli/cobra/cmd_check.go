package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/verilib/internal/commands"
)

func newCheckCmd() *cobra.Command {
	var opts commands.CheckOpts

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fail unless every verification file passed",
		Long: `Compare a merged result with the verification input.

Exits 1 with E_VERIFY_FAILED when a verification file has no result or a
result other than AC or SKIP.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return err
			}
			return commands.Check(cmd.Context(), newDeps(args), cwd, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "input file (default <data_dir>/input.json)")
	cmd.Flags().StringVar(&opts.Result, "result", "", "merged result (required)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print JSON")

	return cmd
}
