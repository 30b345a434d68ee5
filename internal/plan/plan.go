// Package plan decides which verification files must be checked again.
package plan

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/NielsdaWheelz/verilib/internal/fs"
	"github.com/NielsdaWheelz/verilib/internal/logging"
	"github.com/NielsdaWheelz/verilib/internal/result"
	"github.com/NielsdaWheelz/verilib/internal/status"
	"github.com/NielsdaWheelz/verilib/internal/verifyinput"
)

// Reason explains why a file is scheduled.
type Reason string

const (
	ReasonNoResult    Reason = "no_result"    // never verified
	ReasonNotAccepted Reason = "not_accepted" // last outcome was not AC
	ReasonChanged     Reason = "changed"      // a file in its closure changed since
)

// Item is one scheduled verification file.
type Item struct {
	Path   string `json:"path"`
	Reason Reason `json:"reason"`
	// Changed lists the closure members newer than the last run, for
	// ReasonChanged.
	Changed []string `json:"changed,omitempty"`
}

// Plan is the outcome of Build.
type Plan struct {
	Items    []Item   `json:"items"`
	UpToDate []string `json:"up_to_date"`
}

// Paths returns the scheduled paths in order.
func (p Plan) Paths() []string {
	out := make([]string, len(p.Items))
	for i, it := range p.Items {
		out[i] = it.Path
	}
	return out
}

// ModTimes reports when a root-relative path was last modified. ok is false
// for paths that do not exist.
type ModTimes interface {
	ModTime(p string) (t time.Time, ok bool, err error)
}

// FSModTimes reads modification times from the filesystem.
type FSModTimes struct {
	FS   fs.FS
	Root string
}

func (m FSModTimes) ModTime(p string) (time.Time, bool, error) {
	info, err := m.FS.Stat(filepath.Join(m.Root, filepath.FromSlash(p)))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return info.ModTime(), true, nil
}

// StaticModTimes is a fixed table of modification times.
type StaticModTimes map[string]time.Time

func (m StaticModTimes) ModTime(p string) (time.Time, bool, error) {
	t, ok := m[p]
	return t, ok, nil
}

// Build schedules every verification file of in that has no previous
// result, whose previous status is not AC, or whose transitive closure
// holds a file modified after the previous run. prev may be nil.
func Build(in *verifyinput.Input, prev *result.VerifyCommandResult, times ModTimes, logger *zap.Logger) (Plan, error) {
	logger = logging.OrNop(logger)
	trans := in.TransitiveDependsOn()

	// Files are shared between closures; stat each once.
	cache := map[string]time.Time{}
	modTime := func(p string) (time.Time, bool, error) {
		if t, ok := cache[p]; ok {
			return t, !t.IsZero(), nil
		}
		t, ok, err := times.ModTime(p)
		if err != nil {
			return time.Time{}, false, err
		}
		if !ok {
			t = time.Time{}
		}
		cache[p] = t
		return t, ok, nil
	}

	plan := Plan{Items: []Item{}, UpToDate: []string{}}
	for _, q := range in.VerificationFiles() {
		var fr result.FileResult
		found := false
		if prev != nil {
			fr, found = prev.Files[q]
		}
		if !found {
			plan.Items = append(plan.Items, Item{Path: q, Reason: ReasonNoResult})
			continue
		}
		if fr.Status() != status.AC {
			plan.Items = append(plan.Items, Item{Path: q, Reason: ReasonNotAccepted})
			continue
		}

		var changed []string
		for _, p := range trans.Get(q).Slice() {
			t, ok, err := modTime(p)
			if err != nil {
				return Plan{}, err
			}
			if ok && t.After(fr.LastExecutionTime) {
				changed = append(changed, p)
			}
		}
		if len(changed) > 0 {
			plan.Items = append(plan.Items, Item{Path: q, Reason: ReasonChanged, Changed: changed})
			continue
		}
		plan.UpToDate = append(plan.UpToDate, q)
	}

	logger.Debug("built plan", zap.Int("scheduled", len(plan.Items)), zap.Int("up_to_date", len(plan.UpToDate)))
	return plan, nil
}

// Affected returns the verification files whose check exercises any of the
// changed paths, sorted. Unknown paths are ignored.
func Affected(in *verifyinput.Input, changed []string) []string {
	vw := in.VerifiedWith()
	set := map[string]bool{}
	for _, c := range changed {
		if f, ok := in.File(c); ok && f.IsVerification() {
			set[c] = true
		}
		vw.Get(c).Each(func(q string) { set[q] = true })
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// FromChanged schedules the verification files affected by changed, with
// each item listing the changed paths in its closure. Every other
// verification file is up to date.
func FromChanged(in *verifyinput.Input, changed []string) Plan {
	trans := in.TransitiveDependsOn()
	affected := Affected(in, changed)
	scheduled := make(map[string]bool, len(affected))

	plan := Plan{Items: []Item{}, UpToDate: []string{}}
	for _, q := range affected {
		scheduled[q] = true
		closure := trans.Get(q)
		hits := []string{}
		for _, c := range changed {
			if closure.Has(c) {
				hits = append(hits, c)
			}
		}
		sort.Strings(hits)
		plan.Items = append(plan.Items, Item{Path: q, Reason: ReasonChanged, Changed: hits})
	}
	for _, q := range in.VerificationFiles() {
		if !scheduled[q] {
			plan.UpToDate = append(plan.UpToDate, q)
		}
	}
	return plan
}
