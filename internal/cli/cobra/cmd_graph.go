package cobra

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/verilib/internal/commands"
	"github.com/NielsdaWheelz/verilib/internal/verifyinput"
)

func newGraphCmd() *cobra.Command {
	var opts commands.GraphOpts

	kinds := make([]string, 0, len(verifyinput.Kinds()))
	for _, k := range verifyinput.Kinds() {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:   "graph <kind> [path]",
		Short: "Print a dependency relation",
		Long: `Print one relation of the dependency graph.

Arguments:
  kind    ` + strings.Join(kinds, ", ") + `
  path    file path or unique path suffix (default: every file)

Cyclic includes are allowed; files on a cycle share one closure.`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return err
			}
			opts.Kind = args[0]
			if len(args) == 2 {
				opts.Path = args[1]
			}
			return commands.Graph(cmd.Context(), newDeps(args), cwd, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "input file (default <data_dir>/input.json)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print JSON")

	return cmd
}
