package result

import (
	"cmp"
	"fmt"
	"sort"
	"strings"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/status"
)

// Every merge below picks a maximum under a total order, or takes a
// key-wise union of such maxima. That makes each one a semilattice join:
// commutative, associative and idempotent.

// MergeTestcase picks between two results for the same testcase name. The
// more recent run wins; among equally recent runs a failure beats a
// success and a success beats a skip, then the slower run wins, then the one
// using more memory.
func MergeTestcase(a, b TestcaseResult) TestcaseResult {
	if compareTestcase(a, b) >= 0 {
		return a
	}
	return b
}

func compareTestcase(a, b TestcaseResult) int {
	if c := a.LastExecutionTime.Compare(b.LastExecutionTime); c != 0 {
		return c
	}
	if c := cmp.Compare(dominance(a.Status), dominance(b.Status)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Elapsed, b.Elapsed); c != 0 {
		return c
	}
	switch {
	case a.Memory == nil && b.Memory == nil:
		return 0
	case a.Memory == nil:
		return -1
	case b.Memory == nil:
		return 1
	}
	if c := cmp.Compare(*a.Memory, *b.Memory); c != 0 {
		return c
	}
	// Unknown status strings share a severity; order them by text.
	return strings.Compare(string(a.Status), string(b.Status))
}

// MergeFile unions the testcases of a and b by name.
func MergeFile(a, b FileResult) FileResult {
	tcs := make([]TestcaseResult, 0, len(a.Testcases)+len(b.Testcases))
	tcs = append(tcs, a.Testcases...)
	tcs = append(tcs, b.Testcases...)
	last := a.LastExecutionTime
	if b.LastExecutionTime.After(last) {
		last = b.LastExecutionTime
	}
	return NewFileResult(last, tcs...)
}

// Merge combines two reports. Paths present in only one pass through
// unchanged; paths present in both are merged with MergeFile.
func Merge(a, b VerifyCommandResult) VerifyCommandResult {
	files := make(map[string]FileResult, len(a.Files)+len(b.Files))
	for p, f := range a.Files {
		files[p] = f
	}
	for p, f := range b.Files {
		if prev, ok := files[p]; ok {
			files[p] = MergeFile(prev, f)
			continue
		}
		files[p] = f
	}

	runs := make([]RunInfo, 0, len(a.Runs)+len(b.Runs))
	runs = append(runs, a.Runs...)
	runs = append(runs, b.Runs...)

	return VerifyCommandResult{Runs: foldRuns(runs), Files: files}
}

// MergeAll reduces results left to right. It fails with E_EMPTY_MERGE on an
// empty slice and returns a single result unchanged.
func MergeAll(results []VerifyCommandResult) (VerifyCommandResult, error) {
	if len(results) == 0 {
		return VerifyCommandResult{}, errors.NewWithDetails(errors.EEmptyMerge,
			"no results to merge",
			map[string]string{"hint": "pass at least one result file; a missing shard should not produce an empty report"})
	}
	out := results[0]
	for _, r := range results[1:] {
		out = Merge(out, r)
	}
	return out, nil
}

// dominance ranks verdicts for picking between runs of the same testcase.
// It is the severity order except that a skip ranks below AC: a case that
// one shard skipped and another ran keeps the real outcome.
func dominance(s status.JudgeStatus) int {
	if s == status.SKIP {
		return -1
	}
	return s.Severity()
}

// foldTestcases sorts by name and merges repeated names.
func foldTestcases(tcs []TestcaseResult) []TestcaseResult {
	byName := make(map[string]TestcaseResult, len(tcs))
	for _, tc := range tcs {
		if prev, ok := byName[tc.Name]; ok {
			tc = MergeTestcase(prev, tc)
		}
		byName[tc.Name] = tc
	}
	out := make([]TestcaseResult, 0, len(byName))
	for _, tc := range byName {
		out = append(out, tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// foldRuns keeps one RunInfo per ID and orders them by start time then ID.
// Start times are converted to UTC.
func foldRuns(runs []RunInfo) []RunInfo {
	byID := make(map[string]RunInfo, len(runs))
	for _, r := range runs {
		r.StartedAt = r.StartedAt.UTC()
		if prev, ok := byID[r.ID]; ok && compareRun(prev, r) >= 0 {
			continue
		}
		byID[r.ID] = r
	}
	out := make([]RunInfo, 0, len(byID))
	for _, r := range byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].StartedAt.Compare(out[j].StartedAt); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// compareRun orders two records of the same run so that repeated merges
// agree on which to keep.
func compareRun(a, b RunInfo) int {
	if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
		return c
	}
	if c := cmp.Compare(a.TotalSeconds, b.TotalSeconds); c != 0 {
		return c
	}
	if c := strings.Compare(a.Label, b.Label); c != 0 {
		return c
	}
	return strings.Compare(envKey(a.Environment), envKey(b.Environment))
}

func envKey(env map[string]string) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%q=%q;", k, env[k])
	}
	return sb.String()
}
