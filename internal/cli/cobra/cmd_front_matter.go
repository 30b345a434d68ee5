package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/verilib/internal/commands"
	"github.com/NielsdaWheelz/verilib/internal/fs"
)

func newFrontMatterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "front-matter <file>",
		Short: "Print the front matter of a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return err
			}
			opts := commands.FrontMatterOpts{Path: args[0]}
			return commands.FrontMatter(cmd.Context(), fs.NewRealFS(), cwd, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	return cmd
}
