package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/verilib/internal/commands"
)

func newDocsCmd() *cobra.Command {
	var opts commands.DocsOpts

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate documentation pages",
		Long: `Write one Markdown page per file with its relations and status.

A hand-written <file>.md next to a source file keeps its body and its own
front matter keys; title and layout are filled in only when missing.
Files marked display: never are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return err
			}
			ctx, cancel := interruptContext()
			defer cancel()

			return commands.Docs(ctx, newDeps(args), cwd, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "input file (default <data_dir>/input.json)")
	cmd.Flags().StringVar(&opts.Result, "result", "", "merged result")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output directory (default docs.output_dir)")
	cmd.Flags().BoolVar(&opts.Clean, "clean", false, "remove the output directory first")

	return cmd
}
