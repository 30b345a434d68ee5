package languages

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/NielsdaWheelz/verilib/internal/fs"
)

var (
	importRe = regexp.MustCompile(`(?m)^[ \t]*import[ \t]+([A-Za-z_][\w.]*(?:[ \t]*,[ \t]*[A-Za-z_][\w.]*)*)`)
	fromRe   = regexp.MustCompile(`(?m)^[ \t]*from[ \t]+(\.*[\w.]*)[ \t]+import[ \t]+\(?[ \t]*([\w*][\w \t,]*)`)
)

// Python handles Python modules. Imports are resolved against the
// repository root; relative imports against the importing file's package.
type Python struct{}

func (Python) Name() string { return "python" }

func (Python) Extensions() []string { return []string{"py"} }

func (Python) IsVerificationFile(p string) bool { return isTestName(p) }

func (Python) ListDependencies(env Env, p string) ([]string, error) {
	src, err := env.FS.ReadFile(osPath(env, p))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	seen := map[string]bool{}
	var deps []string
	add := func(candidates ...string) {
		for _, c := range candidates {
			np, err := fs.NormalizePath(c)
			if err != nil || np == p {
				continue
			}
			if exists(env, np) {
				if !seen[np] {
					seen[np] = true
					deps = append(deps, np)
				}
				return
			}
		}
	}

	for _, m := range importRe.FindAllSubmatch(src, -1) {
		for _, mod := range strings.Split(string(m[1]), ",") {
			mod = strings.TrimSpace(mod)
			add(moduleFiles("", mod)...)
		}
	}

	for _, m := range fromRe.FindAllSubmatch(src, -1) {
		spec := string(m[1])
		base := ""
		if dots := len(spec) - len(strings.TrimLeft(spec, ".")); dots > 0 {
			base = path.Dir(p)
			for i := 1; i < dots; i++ {
				base = path.Dir(base)
			}
			spec = spec[dots:]
		}
		add(moduleFiles(base, spec)...)
		// "from pkg import mod" may name a submodule.
		for _, name := range strings.Split(string(m[2]), ",") {
			fields := strings.Fields(name)
			if len(fields) == 0 || fields[0] == "*" {
				continue
			}
			name = fields[0]
			sub := name
			if spec != "" {
				sub = spec + "." + name
			}
			add(moduleFiles(base, sub)...)
		}
	}

	sort.Strings(deps)
	return deps, nil
}

// moduleFiles lists the files a dotted module name may live in.
func moduleFiles(base, module string) []string {
	if module == "" {
		if base == "" {
			return nil
		}
		return []string{path.Join(base, "__init__.py")}
	}
	rel := strings.ReplaceAll(module, ".", "/")
	if base != "" && base != "." {
		rel = path.Join(base, rel)
	}
	return []string{rel + ".py", path.Join(rel, "__init__.py")}
}

// ListAttributes reads "# competitive-verifier: KEY value" comments.
func (Python) ListAttributes(env Env, p string) (map[string]any, error) {
	src, err := env.FS.ReadFile(osPath(env, p))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return attributes(src, false), nil
}
