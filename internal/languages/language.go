// Package languages knows how to read dependencies and attributes out of
// source files, one implementation per language.
//
// Languages are looked up through a Registry built once at startup and
// passed to whoever needs it.
package languages

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/NielsdaWheelz/verilib/internal/fs"
)

// Env is the repository a language reads from.
type Env struct {
	FS fs.FS
	// Root is the repository root as an OS path. Paths given to and
	// returned by a Language are slash-separated and relative to Root.
	Root string
	// IncludePaths are root-relative directories searched for C++ quoted
	// includes after the including file's own directory.
	IncludePaths []string
}

// Language extracts graph data from source files.
type Language interface {
	// Name is the builtin name used by config aliases, e.g. "cpp".
	Name() string
	// Extensions lists the file extensions handled, without dots.
	Extensions() []string
	// ListDependencies returns the root-relative paths p depends on. Only
	// files that exist are returned.
	ListDependencies(env Env, p string) ([]string, error)
	// ListAttributes returns the special-comment attributes of p plus the
	// URLs embedded in it under "links".
	ListAttributes(env Env, p string) (map[string]any, error)
	// IsVerificationFile reports whether p is a test that verifies others.
	IsVerificationFile(p string) bool
}

// isTestName is the shared convention: a verification file has ".test." in
// its base name, e.g. "segtree.test.cpp".
func isTestName(p string) bool {
	return strings.Contains(path.Base(p), ".test.")
}

// exists reports whether the root-relative path p is a regular file.
func exists(env Env, p string) bool {
	info, err := env.FS.Stat(osPath(env, p))
	return err == nil && info != nil && !info.IsDir()
}

func osPath(env Env, p string) string {
	return filepath.Join(env.Root, filepath.FromSlash(p))
}
