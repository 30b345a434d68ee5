package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/verilib/internal/commands"
)

func newMergeResultCmd() *cobra.Command {
	var opts commands.MergeResultOpts

	cmd := &cobra.Command{
		Use:   "merge-result <result>...",
		Short: "Merge verification results from parallel shards",
		Long: `Merge result files into one.

The merge does not depend on argument order, and merging a result with
itself changes nothing. For each file the worst status wins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return err
			}
			ctx, cancel := interruptContext()
			defer cancel()

			opts.Paths = args
			return commands.MergeResult(ctx, newDeps(args), cwd, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "merged result file (default stdout)")

	return cmd
}
