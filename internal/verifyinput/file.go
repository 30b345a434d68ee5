// Package verifyinput holds the set of tracked source files and the
// dependency graph between them.
//
// An Input is built once and is read-only afterwards. Derived relations are
// computed on first use, at most once, and cached for the Input's lifetime.
package verifyinput

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
	"github.com/NielsdaWheelz/verilib/internal/verification"
)

// AdditionalSource is an extra file published next to a verified file,
// e.g. a generated bundle.
type AdditionalSource struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// File is one tracked source path.
type File struct {
	// Path is the normalized slash-separated path; the file's identity.
	Path string `json:"-"`
	// Dependencies are the paths this file depends on, sorted and unique.
	Dependencies []string `json:"dependencies"`
	// Verification lists how this file is checked. Empty means the file is
	// only verified through files that depend on it.
	Verification verification.List `json:"verification"`
	// DocumentAttributes are free-form page attributes (title, display, ...).
	DocumentAttributes map[string]any `json:"document_attributes"`
	// AdditionalSources are published alongside the file.
	AdditionalSources []AdditionalSource `json:"additional_sources,omitempty"`
}

// IsVerification reports whether the file carries its own verification.
func (f *File) IsVerification() bool {
	return len(f.Verification) > 0
}

// Title returns the "title" document attribute, or "" when unset.
func (f *File) Title() string {
	if s, ok := f.DocumentAttributes["title"].(string); ok {
		return s
	}
	return ""
}

// normalize returns a copy of f with its path and dependencies normalized and
// nil collections replaced by empty ones.
func normalize(f File) (File, error) {
	p, err := fs.NormalizePath(f.Path)
	if err != nil {
		return File{}, errors.WrapWithDetails(errors.EInvalidPath,
			fmt.Sprintf("invalid file path %q", f.Path), err,
			map[string]string{"path": f.Path})
	}

	seen := make(map[string]struct{}, len(f.Dependencies))
	deps := make([]string, 0, len(f.Dependencies))
	for _, d := range f.Dependencies {
		nd, err := fs.NormalizePath(d)
		if err != nil {
			return File{}, errors.WrapWithDetails(errors.EInvalidPath,
				fmt.Sprintf("file %s has invalid dependency %q", p, d), err,
				map[string]string{"path": p, "other_path": d})
		}
		if _, ok := seen[nd]; ok {
			continue
		}
		seen[nd] = struct{}{}
		deps = append(deps, nd)
	}
	sort.Strings(deps)

	out := File{
		Path:               p,
		Dependencies:       deps,
		Verification:       f.Verification,
		DocumentAttributes: f.DocumentAttributes,
		AdditionalSources:  f.AdditionalSources,
	}
	if out.Verification == nil {
		out.Verification = verification.List{}
	}
	if out.DocumentAttributes == nil {
		out.DocumentAttributes = map[string]any{}
	}
	return out, nil
}

// canonical is the byte form used to decide whether two declarations of the
// same path agree. encoding/json sorts map keys, so equal content gives
// equal bytes.
func canonical(f File) ([]byte, error) {
	return json.Marshal(f)
}

// Builder collects file declarations and produces an Input.
// A Builder is not safe for concurrent use.
type Builder struct {
	files map[string]File
	raw   map[string][]byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		files: make(map[string]File),
		raw:   make(map[string][]byte),
	}
}

// Add declares a file. Declaring the same path again with identical content
// is a no-op; declaring it with different content fails with
// E_DUPLICATE_FILE.
func (b *Builder) Add(f File) error {
	nf, err := normalize(f)
	if err != nil {
		return err
	}
	raw, err := canonical(nf)
	if err != nil {
		return errors.WrapWithDetails(errors.EInvalidInput,
			fmt.Sprintf("file %s cannot be encoded", nf.Path), err,
			map[string]string{"path": nf.Path})
	}
	if prev, ok := b.raw[nf.Path]; ok {
		if bytes.Equal(prev, raw) {
			return nil
		}
		details := map[string]string{"path": nf.Path}
		if f.Path != nf.Path {
			details["other_path"] = f.Path
		}
		return errors.NewWithDetails(errors.EDuplicateFile,
			fmt.Sprintf("file %s declared twice with different content", nf.Path), details)
	}
	b.files[nf.Path] = nf
	b.raw[nf.Path] = raw
	return nil
}

// Len returns the number of declared files.
func (b *Builder) Len() int {
	return len(b.files)
}

// Build returns an Input over the declared files. The Builder may keep being
// used; later additions do not affect the returned Input.
func (b *Builder) Build() *Input {
	files := make(map[string]File, len(b.files))
	for p, f := range b.files {
		files[p] = f
	}
	return newInput(files)
}

// New builds an Input from files in one step.
func New(files ...File) (*Input, error) {
	b := NewBuilder()
	for _, f := range files {
		if err := b.Add(f); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
