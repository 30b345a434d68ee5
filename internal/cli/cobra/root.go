// Package cobra provides the Cobra-based CLI command tree for verilib.
package cobra

import (
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NielsdaWheelz/verilib/internal/commands"
	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
	"github.com/NielsdaWheelz/verilib/internal/logging"
	"github.com/NielsdaWheelz/verilib/internal/tty"
	"github.com/NielsdaWheelz/verilib/internal/version"
)

// GlobalOpts holds global options parsed before subcommand dispatch.
type GlobalOpts struct {
	Verbose    bool
	LogLevel   string
	LogFormat  string
	ConfigPath string
}

// globalOpts stores the parsed global options for access by subcommands.
var globalOpts GlobalOpts

// logger is built from the global options before any subcommand runs.
var logger = zap.NewNop()

// GetGlobalOpts returns the parsed global options.
func GetGlobalOpts() GlobalOpts {
	return globalOpts
}

// NewRootCmd creates the root cobra command for verilib.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "verilib",
		Short: "Dependency graph and result tooling for verified code libraries",
		Long: `verilib - dependency graph and result tooling for verified code libraries

verilib resolves the include graph of a competitive-programming library,
decides which test files must be verified again, merges verification results
from parallel shards, and generates documentation pages with the verification
status of every file.`,
		Version:       version.FullVersion(),
		SilenceErrors: true, // We handle error printing in main.go
		SilenceUsage:  true, // We handle usage printing manually
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logging.Options{
				Level:   globalOpts.LogLevel,
				Format:  globalOpts.LogFormat,
				Verbose: globalOpts.Verbose,
				Color:   tty.ColorEnabled(os.Stderr),
			})
			if err != nil {
				return errors.Wrap(errors.EUsage, "invalid logging flags", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&globalOpts.Verbose, "verbose", false, "show detailed error context and debug logs")
	rootCmd.PersistentFlags().StringVar(&globalOpts.LogLevel, "log-level", "", "log level: debug, info, warn, error (default warn)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.LogFormat, "log-format", "", "log format: console or json (default console)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.ConfigPath, "config", "", "path to verilib.yml (default ./verilib.yml)")

	// Disable Cobra's default completion command (we register our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newResolveCmd(),
		newGraphCmd(),
		newPlanCmd(),
		newMergeResultCmd(),
		newCheckCmd(),
		newDocsCmd(),
		newFrontMatterCmd(),
		newCompletionCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command with the given output writers.
// This is the main entry point from main.go.
func Execute(stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

// newDeps builds the dependencies shared by every workspace command.
func newDeps(args []string) commands.Deps {
	return commands.Deps{
		FS:         fs.NewRealFS(),
		Logger:     logger,
		Now:        time.Now,
		ConfigPath: globalOpts.ConfigPath,
		Args:       args,
	}
}

// getwd returns the working directory as a verilib error.
func getwd() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(errors.EInternal, "failed to get working directory", err)
	}
	return cwd, nil
}

// interruptContext returns a context cancelled on SIGINT.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
