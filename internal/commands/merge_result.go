package commands

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/NielsdaWheelz/verilib/internal/events"
	"github.com/NielsdaWheelz/verilib/internal/result"
)

// MergeResultOpts holds options for the merge-result command.
type MergeResultOpts struct {
	// Paths are the result files to merge, relative to cwd.
	Paths []string
	// Output is the merged result file; empty writes to stdout.
	Output string
}

// MergeResult merges result files from independent shards into one.
// Files are loaded concurrently and reduced pairwise; the order of Paths
// does not affect the output.
func MergeResult(ctx context.Context, d Deps, cwd string, opts MergeResultOpts, stdout, stderr io.Writer) error {
	ws, err := openWorkspace(d, cwd)
	if err != nil {
		return err
	}
	return ws.track("merge-result", func() (map[string]any, error) {
		if len(opts.Paths) == 0 {
			_, err := result.MergeAll(nil)
			return nil, err
		}

		paths := make([]string, len(opts.Paths))
		for i, p := range opts.Paths {
			paths[i] = ws.path(cwd, p, "")
		}
		results, err := ws.store.LoadResults(ctx, paths)
		if err != nil {
			return nil, err
		}
		merged, err := result.MergeParallel(ctx, results)
		if err != nil {
			return nil, err
		}
		ws.logger.Info("results merged",
			zap.Int("inputs", len(results)),
			zap.Int("files", len(merged.Files)),
			zap.Int("runs", len(merged.Runs)))

		extra := events.MergeData(len(results), len(merged.Files))
		if opts.Output == "" {
			return extra, result.Encode(stdout, merged)
		}
		out := ws.path(cwd, opts.Output, "")
		if err := ws.store.WriteResult(out, merged); err != nil {
			return nil, err
		}
		_, _ = fmt.Fprintf(stderr, "merged %d results (%d files) into %s\n", len(results), len(merged.Files), out)
		return extra, nil
	})
}
