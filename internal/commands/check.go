package commands

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/events"
	"github.com/NielsdaWheelz/verilib/internal/render"
	"github.com/NielsdaWheelz/verilib/internal/report"
)

// CheckOpts holds options for the check command.
type CheckOpts struct {
	Input string
	// Result is the merged result to check. Required.
	Result string
	JSON   bool
}

// Check reports whether every verification file has an accepted or skipped
// result. An incomplete or failing result is E_VERIFY_FAILED.
func Check(ctx context.Context, d Deps, cwd string, opts CheckOpts, stdout, stderr io.Writer) error {
	if opts.Result == "" {
		return errors.New(errors.EUsage, "--result is required")
	}
	ws, err := openWorkspace(d, cwd)
	if err != nil {
		return err
	}
	return ws.track("check", func() (map[string]any, error) {
		inputPath := ws.path(cwd, opts.Input, ws.store.InputPath())
		in, err := ws.store.ReadInput(inputPath)
		if err != nil {
			return nil, err
		}
		resultPath := ws.path(cwd, opts.Result, "")
		res, err := ws.store.ReadResult(resultPath)
		if err != nil {
			return nil, err
		}

		c := report.CheckCompleteness(in, res)
		for _, p := range c.Unknown {
			ws.logger.Warn("result names a file the input does not know", zap.String("path", p))
		}
		if opts.JSON {
			if err := writeJSON(stdout, c); err != nil {
				return nil, err
			}
		} else if err := render.WriteCompleteness(stdout, c, c.Coverage(in)); err != nil {
			return nil, err
		}

		extra := events.CheckData(c.Complete, len(c.Failing), len(c.Missing))
		if c.Complete {
			return extra, nil
		}
		return extra, errors.NewWithDetails(errors.EVerifyFailed,
			fmt.Sprintf("%d failing, %d missing verification files", len(c.Failing), len(c.Missing)),
			map[string]string{
				"input":  inputPath,
				"result": resultPath,
				"count":  fmt.Sprintf("%d", len(c.Failing)+len(c.Missing)),
			})
	})
}
