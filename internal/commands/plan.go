package commands

import (
	"context"
	"io"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
	"github.com/NielsdaWheelz/verilib/internal/plan"
	"github.com/NielsdaWheelz/verilib/internal/render"
	"github.com/NielsdaWheelz/verilib/internal/result"
)

// PlanOpts holds options for the plan command.
type PlanOpts struct {
	Input string
	// Result is the previous merged result. Without it every verification
	// file is scheduled.
	Result string
	// Changed switches to change-driven planning: only files whose closure
	// holds one of these root-relative paths are scheduled.
	Changed []string
	JSON    bool
}

// Plan lists the verification files that must be checked again.
func Plan(ctx context.Context, d Deps, cwd string, opts PlanOpts, stdout, stderr io.Writer) error {
	ws, err := openWorkspace(d, cwd)
	if err != nil {
		return err
	}
	return ws.track("plan", func() (map[string]any, error) {
		in, err := ws.store.ReadInput(ws.path(cwd, opts.Input, ws.store.InputPath()))
		if err != nil {
			return nil, err
		}

		var p plan.Plan
		if len(opts.Changed) > 0 {
			changed := make([]string, 0, len(opts.Changed))
			for _, c := range opts.Changed {
				nc, err := fs.NormalizePath(c)
				if err != nil {
					return nil, errors.WrapWithDetails(errors.EInvalidPath,
						"invalid --changed path", err, map[string]string{"path": c})
				}
				changed = append(changed, nc)
			}
			p = plan.FromChanged(in, changed)
		} else {
			var prev *result.VerifyCommandResult
			if opts.Result != "" {
				res, err := ws.store.ReadResult(ws.path(cwd, opts.Result, ""))
				if err != nil {
					return nil, err
				}
				prev = &res
			}
			p, err = plan.Build(in, prev, plan.FSModTimes{FS: d.FS, Root: ws.root}, ws.logger)
			if err != nil {
				return nil, errors.Wrap(errors.EInternal, "failed to stat sources", err)
			}
		}

		extra := map[string]any{"scheduled": len(p.Items), "up_to_date": len(p.UpToDate)}
		if opts.JSON {
			return extra, writeJSON(stdout, p)
		}
		return extra, render.WritePlan(stdout, p)
	})
}
