package languages

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/NielsdaWheelz/verilib/internal/config"
	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/logging"
)

// Builtins returns the languages available without configuration.
func Builtins() []Language {
	return []Language{CPlusPlus{}, Python{}}
}

// Registry maps file extensions to languages. It is immutable once built
// and safe for concurrent use.
type Registry struct {
	byExt  map[string]Language
	byName map[string]Language
}

// NewRegistry builds the registry from the builtins plus the aliases in
// cfg.Languages. Reconfiguring a builtin extension to another language
// fails with E_LANGUAGE_CONFLICT.
func NewRegistry(cfg config.Config, logger *zap.Logger) (*Registry, error) {
	logger = logging.OrNop(logger)
	r := &Registry{
		byExt:  map[string]Language{},
		byName: map[string]Language{},
	}
	for _, lang := range Builtins() {
		r.byName[lang.Name()] = lang
		for _, ext := range lang.Extensions() {
			r.byExt[ext] = lang
		}
	}

	exts := make([]string, 0, len(cfg.Languages))
	for ext := range cfg.Languages {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	for _, ext := range exts {
		alias := cfg.Languages[ext].Alias
		target, ok := r.byName[alias]
		if !ok {
			return nil, errors.NewWithDetails(errors.EInvalidConfig,
				fmt.Sprintf("languages.%s.alias: unknown language %q", ext, alias),
				map[string]string{"extension": ext, "language": alias, "hint": "known languages: " + strings.Join(r.Names(), ", ")})
		}
		if existing, ok := r.byExt[ext]; ok {
			if existing.Name() == alias {
				logger.Debug("language alias matches builtin", zap.String("extension", ext), zap.String("language", alias))
				continue
			}
			return nil, errors.NewWithDetails(errors.ELanguageConflict,
				fmt.Sprintf("cannot overwrite existing language: .%s is %s", ext, existing.Name()),
				map[string]string{"extension": ext, "language": alias})
		}
		logger.Info("language alias added", zap.String("extension", ext), zap.String("language", alias))
		r.byExt[ext] = target
	}
	return r, nil
}

// Lookup returns the language for path p by its extension.
func (r *Registry) Lookup(p string) (Language, bool) {
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return nil, false
	}
	lang, ok := r.byExt[ext]
	return lang, ok
}

// IsVerificationFile reports whether p belongs to a known language and is a
// verification file in it.
func (r *Registry) IsVerificationFile(p string) bool {
	lang, ok := r.Lookup(p)
	return ok && lang.IsVerificationFile(p)
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Names returns the builtin language names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
