package commands

import (
	"context"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/frontmatter"
	"github.com/NielsdaWheelz/verilib/internal/fs"
)

// FrontMatterOpts holds options for the front-matter command.
type FrontMatterOpts struct {
	Path string
}

type frontMatterJSON struct {
	Path         string         `json:"path"`
	FrontMatter  map[string]any `json:"front_matter"`
	ContentBytes int            `json:"content_bytes"`
}

// FrontMatter prints the front matter of a Markdown file as JSON. A file
// without a block prints "front_matter": null.
func FrontMatter(ctx context.Context, fsys fs.FS, cwd string, opts FrontMatterOpts, stdout, stderr io.Writer) error {
	if opts.Path == "" {
		return errors.New(errors.EUsage, "file is required")
	}
	p := opts.Path
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	doc, err := frontmatter.Load(fsys, p)
	if err != nil {
		return err
	}

	out := frontMatterJSON{Path: opts.Path, ContentBytes: len(doc.Content)}
	if doc.FrontMatter != nil {
		raw, err := frontmatter.Marshal(doc.FrontMatter)
		if err != nil {
			return err
		}
		out.FrontMatter = map[string]any{}
		if err := yaml.Unmarshal(raw, &out.FrontMatter); err != nil {
			return errors.Wrap(errors.EInternal, "failed to re-read front matter", err)
		}
	}
	return writeJSON(stdout, out)
}
