package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/verilib/internal/commands"
)

func newPlanCmd() *cobra.Command {
	var opts commands.PlanOpts

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List verification files that must be verified again",
		Long: `List verification files whose result is missing or stale.

Without --changed, a file is stale when any file in its dependency closure
was modified after its last recorded verification. With --changed, only files
whose closure holds one of the given paths are scheduled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return err
			}
			return commands.Plan(cmd.Context(), newDeps(args), cwd, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "input file (default <data_dir>/input.json)")
	cmd.Flags().StringVar(&opts.Result, "result", "", "previous merged result")
	cmd.Flags().StringSliceVar(&opts.Changed, "changed", nil, "changed paths, relative to the repository root")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print JSON")

	return cmd
}
