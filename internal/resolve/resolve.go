// Package resolve scans a source tree and builds the verification input:
// which files exist, what they depend on, and how each is verified.
package resolve

import (
	"context"
	"fmt"
	iofs "io/fs"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
	"github.com/NielsdaWheelz/verilib/internal/languages"
	"github.com/NielsdaWheelz/verilib/internal/logging"
	"github.com/NielsdaWheelz/verilib/internal/verification"
	"github.com/NielsdaWheelz/verilib/internal/verifyinput"
)

// Attribute keys with meaning to the resolver. Everything else is passed
// through as a document attribute.
const (
	AttrProblem = "PROBLEM"
	AttrIgnore  = "IGNORE"
	AttrError   = "ERROR"
	AttrTLE     = "TLE"
	AttrMLE     = "MLE"
	AttrTitle   = "TITLE"
)

// Resolver builds a verifyinput.Input from files on disk.
type Resolver struct {
	Registry *languages.Registry
	Env      languages.Env
	Logger   *zap.Logger
	// Exclude lists root-relative directories not to scan, e.g. the data dir.
	Exclude []string
}

// Scan returns the root-relative paths under dirs handled by a registered
// language, sorted. Hidden directories are skipped. No dirs means the
// whole root.
func (r *Resolver) Scan(dirs []string) ([]string, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	var out []string
	seen := map[string]bool{}
	for _, dir := range dirs {
		start := r.Env.Root
		if dir != "" && dir != "." {
			nd, err := fs.NormalizePath(dir)
			if err != nil {
				return nil, errors.WrapWithDetails(errors.EInvalidPath, "invalid directory", err,
					map[string]string{"path": dir})
			}
			start = filepath.Join(r.Env.Root, filepath.FromSlash(nd))
		}
		err := r.Env.FS.WalkDir(start, func(osPath string, d iofs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := fs.RelSlash(r.Env.Root, osPath)
			if d.IsDir() {
				if relErr != nil {
					// The root itself.
					return nil
				}
				if strings.HasPrefix(d.Name(), ".") || r.excluded(rel) {
					return iofs.SkipDir
				}
				return nil
			}
			if relErr != nil {
				return relErr
			}
			if _, ok := r.Registry.Lookup(rel); ok && !seen[rel] {
				seen[rel] = true
				out = append(out, rel)
			}
			return nil
		})
		if err != nil {
			return nil, errors.WrapWithDetails(errors.ENotFound, "failed to scan "+dir, err,
				map[string]string{"path": dir})
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *Resolver) excluded(rel string) bool {
	for _, ex := range r.Exclude {
		if rel == ex || strings.HasPrefix(rel, ex+"/") {
			return true
		}
	}
	return false
}

// Resolve scans dirs and builds the input. Files are read concurrently.
func (r *Resolver) Resolve(ctx context.Context, dirs []string) (*verifyinput.Input, error) {
	logger := logging.OrNop(r.Logger)
	paths, err := r.Scan(dirs)
	if err != nil {
		return nil, err
	}
	logger.Debug("scanned sources", zap.Int("count", len(paths)))

	files := make([]verifyinput.File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := r.File(p)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := verifyinput.NewBuilder()
	for _, f := range files {
		if err := b.Add(f); err != nil {
			return nil, err
		}
	}
	in := b.Build()
	logger.Info("resolved verification input",
		zap.Int("files", len(paths)),
		zap.Int("verification_files", len(in.VerificationFiles())))
	return in, nil
}

// File resolves a single root-relative path.
func (r *Resolver) File(p string) (verifyinput.File, error) {
	logger := logging.OrNop(r.Logger)
	lang, ok := r.Registry.Lookup(p)
	if !ok {
		return verifyinput.File{}, errors.NewWithDetails(errors.EInvalidInput,
			"no language handles "+p, map[string]string{"path": p, "extension": path.Ext(p)})
	}

	deps, err := lang.ListDependencies(r.Env, p)
	if err != nil {
		return verifyinput.File{}, errors.WrapWithDetails(errors.EInvalidInput,
			"failed to list dependencies", err, map[string]string{"path": p, "language": lang.Name()})
	}
	attrs, err := lang.ListAttributes(r.Env, p)
	if err != nil {
		return verifyinput.File{}, errors.WrapWithDetails(errors.EInvalidInput,
			"failed to list attributes", err, map[string]string{"path": p, "language": lang.Name()})
	}
	if t, ok := attrs[AttrTitle]; ok {
		attrs["title"] = t
		delete(attrs, AttrTitle)
	}

	f := verifyinput.File{Path: p, Dependencies: deps, DocumentAttributes: attrs}
	if !lang.IsVerificationFile(p) {
		return f, nil
	}

	v, err := verificationFor(p, attrs)
	if err != nil {
		return verifyinput.File{}, err
	}
	if v == nil {
		logger.Warn("verification file declares no PROBLEM; it will not be verified", zap.String("path", p))
		return f, nil
	}
	f.Verification = verification.List{v}
	return f, nil
}

func verificationFor(p string, attrs map[string]any) (verification.Verification, error) {
	if _, ok := attrs[AttrIgnore]; ok {
		return verification.Skipped(), nil
	}
	url, _ := attrs[AttrProblem].(string)
	if url == "" {
		return nil, nil
	}
	prob := verification.Problem{Problem: url}
	limits := []struct {
		key string
		dst **float64
	}{
		{AttrError, &prob.Error},
		{AttrTLE, &prob.TLE},
		{AttrMLE, &prob.MLE},
	}
	for _, l := range limits {
		raw, ok := attrs[l.key].(string)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.WrapWithDetails(errors.EInvalidVerification,
				fmt.Sprintf("%s must be a number, got %q", l.key, raw), err,
				map[string]string{"path": p})
		}
		*l.dst = &v
	}
	if err := verification.Validate(prob); err != nil {
		if ve, ok := errors.AsVerilibError(err); ok {
			return nil, errors.WrapWithDetails(ve.Code, ve.Msg, err, map[string]string{"path": p})
		}
		return nil, err
	}
	return prob, nil
}
