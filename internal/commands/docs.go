package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/frontmatter"
	"github.com/NielsdaWheelz/verilib/internal/fs"
	"github.com/NielsdaWheelz/verilib/internal/pagedata"
	"github.com/NielsdaWheelz/verilib/internal/render"
	"github.com/NielsdaWheelz/verilib/internal/result"
)

// DocsOpts holds options for the docs command.
type DocsOpts struct {
	Input string
	// Result is optional; without it every test is waiting for judge.
	Result string
	// Output defaults to docs.output_dir from verilib.yml.
	Output string
	// Clean removes the output directory first.
	Clean bool
}

// Docs writes one Markdown page per file, with the graph relations and
// verification status in its front matter. A hand-written page next to the
// source (<source>.md) keeps its body and extra keys.
func Docs(ctx context.Context, d Deps, cwd string, opts DocsOpts, stdout, stderr io.Writer) error {
	ws, err := openWorkspace(d, cwd)
	if err != nil {
		return err
	}
	return ws.track("docs", func() (map[string]any, error) {
		in, err := ws.store.ReadInput(ws.path(cwd, opts.Input, ws.store.InputPath()))
		if err != nil {
			return nil, err
		}
		var res result.VerifyCommandResult
		if opts.Result != "" {
			res, err = ws.store.ReadResult(ws.path(cwd, opts.Result, ""))
			if err != nil {
				return nil, err
			}
		}

		outDir := ws.path(cwd, opts.Output, filepath.Join(ws.root, filepath.FromSlash(ws.cfg.Docs.OutputDir)))
		if opts.Clean {
			if err := fs.SafeRemoveAll(outDir, ws.root); err != nil {
				return nil, errors.WrapWithDetails(errors.EPersistFailed,
					"refusing to clean output directory", err,
					map[string]string{"path": outDir, "hint": "the output directory must be inside the repository"})
			}
			ws.logger.Info("output directory cleaned", zap.String("path", outDir))
		}

		pages := pagedata.Build(in, res)
		written := make([]pagedata.Page, 0, len(pages))
		for _, pg := range pages {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(errors.EInternal, "docs cancelled", err)
			}
			if pg.Display == frontmatter.DisplayNever {
				ws.logger.Debug("page not published", zap.String("path", pg.Path))
				continue
			}
			doc, err := ws.pageDocument(d.FS, pg)
			if err != nil {
				return nil, err
			}
			if err := doc.Save(d.FS, filepath.Join(outDir, filepath.FromSlash(pg.Path)+".md")); err != nil {
				return nil, err
			}
			written = append(written, pg)
		}

		if err := render.WritePages(stdout, written); err != nil {
			return nil, err
		}
		_, _ = fmt.Fprintf(stderr, "wrote %d pages to %s\n", len(written), outDir)
		return map[string]any{"pages": len(written)}, nil
	})
}

// pageDocument merges pg into the hand-written page for its source, if any.
func (w *workspace) pageDocument(fsys fs.FS, pg pagedata.Page) (*frontmatter.Document, error) {
	gen := pg.Document()
	src := filepath.Join(w.root, filepath.FromSlash(pg.Path)+".md")
	if _, err := fsys.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return gen, nil
		}
		return nil, errors.WrapWithDetails(errors.EInternal, "failed to stat page", err, map[string]string{"path": src})
	}

	doc, err := frontmatter.Load(fsys, src)
	if err != nil {
		return nil, err
	}
	if doc.FrontMatter == nil {
		doc.FrontMatter = gen.FrontMatter
		return doc, nil
	}
	fm := doc.FrontMatter
	if fm.Title == "" {
		fm.Title = gen.FrontMatter.Title
	}
	if fm.Layout == "" {
		fm.Layout = gen.FrontMatter.Layout
	}
	fm.DocumentationOf = pg.Path
	fm.Data = gen.FrontMatter.Data
	w.logger.Debug("merged hand-written page", zap.String("path", src))
	return doc, nil
}
