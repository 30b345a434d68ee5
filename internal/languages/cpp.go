package languages

import (
	"fmt"
	"path"
	"regexp"
	"sort"

	"github.com/NielsdaWheelz/verilib/internal/fs"
)

var includeRe = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*include[ \t]*"([^"]+)"`)

// CPlusPlus handles C and C++ sources and headers.
type CPlusPlus struct{}

func (CPlusPlus) Name() string { return "cpp" }

func (CPlusPlus) Extensions() []string { return []string{"cpp", "hpp", "cc", "h"} }

func (CPlusPlus) IsVerificationFile(p string) bool { return isTestName(p) }

// ListDependencies resolves quoted includes against the including file's
// directory, then each include path. Angle-bracket includes are system
// headers and are ignored, as are quoted includes that resolve nowhere.
func (CPlusPlus) ListDependencies(env Env, p string) ([]string, error) {
	src, err := env.FS.ReadFile(osPath(env, p))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	seen := map[string]bool{}
	var deps []string
	for _, m := range includeRe.FindAllSubmatch(src, -1) {
		target := string(m[1])
		dirs := append([]string{path.Dir(p)}, env.IncludePaths...)
		for _, dir := range dirs {
			candidate, err := fs.NormalizePath(path.Join(dir, target))
			if err != nil {
				continue
			}
			if exists(env, candidate) {
				if !seen[candidate] {
					seen[candidate] = true
					deps = append(deps, candidate)
				}
				break
			}
		}
	}
	sort.Strings(deps)
	return deps, nil
}

// ListAttributes reads "// competitive-verifier: KEY value" comments and
// the #define PROBLEM "url" convention.
func (CPlusPlus) ListAttributes(env Env, p string) (map[string]any, error) {
	src, err := env.FS.ReadFile(osPath(env, p))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return attributes(src, true), nil
}
