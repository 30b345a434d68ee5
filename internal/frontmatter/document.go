package frontmatter

import (
	"fmt"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
)

// Document is a Markdown page split into metadata and body.
type Document struct {
	Path        string
	FrontMatter *FrontMatter
	Content     []byte
}

// NewDocument returns the default page for a source file: no body and a
// front matter that only points back at the source.
func NewDocument(sourcePath string) *Document {
	return &Document{
		FrontMatter: &FrontMatter{DocumentationOf: sourcePath},
		Content:     []byte{},
	}
}

// Load reads and parses the page at path.
func Load(fsys fs.FS, path string) (*Document, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithDetails(errors.ENotFound,
			fmt.Sprintf("failed to read %s", path), err,
			map[string]string{"path": path})
	}
	fm, content, err := Parse(data)
	if err != nil {
		if ve, ok := errors.AsVerilibError(err); ok {
			details := map[string]string{"path": path}
			for k, v := range ve.Details {
				details[k] = v
			}
			return nil, errors.WrapWithDetails(ve.Code, ve.Msg, ve.Cause, details)
		}
		return nil, err
	}
	return &Document{Path: path, FrontMatter: fm, Content: content}, nil
}

// Bytes renders the page with its front matter.
func (d *Document) Bytes() ([]byte, error) {
	return Dump(d.FrontMatter, d.Content)
}

// Save writes the page to path atomically.
func (d *Document) Save(fsys fs.FS, path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := fs.WriteFileAtomic(fsys, path, data, 0o644); err != nil {
		return errors.WrapWithDetails(errors.EPersistFailed,
			fmt.Sprintf("failed to write %s", path), err,
			map[string]string{"path": path})
	}
	return nil
}
