package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
	"github.com/NielsdaWheelz/verilib/internal/languages"
	"github.com/NielsdaWheelz/verilib/internal/resolve"
	"github.com/NielsdaWheelz/verilib/internal/verifyinput"
)

// ResolveOpts holds options for the resolve command.
type ResolveOpts struct {
	// Dirs are the directories to scan, relative to cwd. Empty means the
	// whole repository.
	Dirs []string
	// Include adds C++ include search directories to those in verilib.yml.
	Include []string
	// Output is the input file to write; "-" writes to stdout. Defaults to
	// <data_dir>/input.json.
	Output string
}

// Resolve scans the repository and writes the verification input.
func Resolve(ctx context.Context, d Deps, cwd string, opts ResolveOpts, stdout, stderr io.Writer) error {
	ws, err := openWorkspace(d, cwd)
	if err != nil {
		return err
	}
	return ws.track("resolve", func() (map[string]any, error) {
		registry, err := languages.NewRegistry(ws.cfg, ws.logger)
		if err != nil {
			return nil, err
		}

		includes := append([]string{}, ws.cfg.IncludePaths...)
		for _, inc := range opts.Include {
			rel, err := rootRel(ws.root, cwd, inc)
			if err != nil {
				return nil, err
			}
			includes = append(includes, rel)
		}
		dirs := make([]string, 0, len(opts.Dirs))
		for _, dir := range opts.Dirs {
			rel, err := rootRel(ws.root, cwd, dir)
			if err != nil {
				return nil, err
			}
			dirs = append(dirs, rel)
		}

		r := &resolve.Resolver{
			Registry: registry,
			Env:      languages.Env{FS: d.FS, Root: ws.root, IncludePaths: includes},
			Logger:   ws.logger,
			Exclude:  []string{ws.cfg.DataDir, ws.cfg.Docs.OutputDir},
		}
		in, err := r.Resolve(ctx, dirs)
		if err != nil {
			return nil, err
		}

		extra := map[string]any{
			"files":              in.Len(),
			"verification_files": len(in.VerificationFiles()),
		}
		if opts.Output == "-" {
			if err := verifyinput.Encode(stdout, in); err != nil {
				return nil, err
			}
			_, _ = fmt.Fprintf(stderr, "resolved: %d files (%d verification)\n", in.Len(), len(in.VerificationFiles()))
			return extra, nil
		}

		out := ws.path(cwd, opts.Output, ws.store.InputPath())
		if err := ws.store.WriteInput(out, in); err != nil {
			return nil, err
		}
		_, _ = fmt.Fprintf(stderr, "resolved: %d files (%d verification)\n", in.Len(), len(in.VerificationFiles()))
		_, _ = fmt.Fprintf(stderr, "input: %s\n", out)
		return extra, nil
	})
}

// rootRel converts a cwd-relative directory argument into the root-relative
// slash form. The root itself is ".".
func rootRel(root, cwd, p string) (string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cwd, p)
	}
	if filepath.Clean(abs) == filepath.Clean(root) {
		return ".", nil
	}
	rel, err := fs.RelSlash(root, abs)
	if err != nil {
		return "", errors.WrapWithDetails(errors.EInvalidPath,
			fmt.Sprintf("%s is outside the repository", p), err,
			map[string]string{"path": p})
	}
	return rel, nil
}
