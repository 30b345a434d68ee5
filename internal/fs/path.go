package fs

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned by NormalizePath for paths that cannot be
// tracked: empty, absolute, or escaping the repository root.
type ErrInvalidPath struct {
	Path   string
	Reason string
}

func (e *ErrInvalidPath) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// NormalizePath converts a user or tool supplied path into the canonical
// slash-separated, root-relative form used as a graph key.
//
// Rules:
//   - backslashes become slashes
//   - the path is cleaned ("a/./b" -> "a/b", "a/b/../c" -> "a/c")
//   - empty, ".", absolute, drive-letter and ".."-escaping paths are rejected
func NormalizePath(p string) (string, error) {
	raw := p
	p = strings.TrimSpace(p)
	if p == "" {
		return "", &ErrInvalidPath{Path: raw, Reason: "empty path"}
	}
	p = strings.ReplaceAll(p, `\`, "/")
	if strings.HasPrefix(p, "/") {
		return "", &ErrInvalidPath{Path: raw, Reason: "absolute path"}
	}
	if len(p) >= 2 && p[1] == ':' {
		return "", &ErrInvalidPath{Path: raw, Reason: "absolute path"}
	}
	p = path.Clean(p)
	if p == "." {
		return "", &ErrInvalidPath{Path: raw, Reason: "path refers to the root"}
	}
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", &ErrInvalidPath{Path: raw, Reason: "path escapes the root"}
	}
	return p, nil
}

// RelSlash returns target relative to base in normalized slash form.
// Both arguments are OS paths; the result must stay under base.
func RelSlash(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return NormalizePath(filepath.ToSlash(rel))
}
