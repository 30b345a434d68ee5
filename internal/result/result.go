// Package result holds verification outcomes and merges partial reports.
//
// Reports from independent shards are merged with Merge, which is
// commutative, associative and idempotent, so shards may be combined in any
// order or tree shape.
package result

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/NielsdaWheelz/verilib/internal/status"
)

// TestcaseResult is one judged testcase.
type TestcaseResult struct {
	Name   string             `json:"name"`
	Status status.JudgeStatus `json:"status"`
	// Elapsed is the wall time in seconds.
	Elapsed float64 `json:"elapsed"`
	// Memory is the peak memory in megabytes, nil when not measured.
	Memory *float64 `json:"memory,omitempty"`
	// LastExecutionTime is when the testcase ran. Zero when unknown.
	LastExecutionTime time.Time `json:"last_execution_time,omitzero"`
}

// FileResult is the outcome of every verification run for one file.
// Verifications without testcases (const, plain command) are recorded as a
// single testcase named after the verification.
type FileResult struct {
	// Testcases are sorted by name with one entry per name.
	Testcases []TestcaseResult
	// LastExecutionTime is the latest time any verification of the file ran.
	LastExecutionTime time.Time
}

// NewFileResult builds a FileResult from testcases in any order. Repeated
// names are folded with MergeTestcase. Times are stored in UTC so that the
// same instant always encodes the same way.
func NewFileResult(lastExecution time.Time, testcases ...TestcaseResult) FileResult {
	tcs := make([]TestcaseResult, len(testcases))
	for i, tc := range testcases {
		tc.LastExecutionTime = tc.LastExecutionTime.UTC()
		tcs[i] = tc
	}
	return FileResult{
		Testcases:         foldTestcases(tcs),
		LastExecutionTime: lastExecution.UTC(),
	}
}

// Status aggregates the testcase verdicts.
func (f FileResult) Status() status.JudgeStatus {
	statuses := make([]status.JudgeStatus, len(f.Testcases))
	for i, tc := range f.Testcases {
		statuses[i] = tc.Status
	}
	return status.Aggregate(statuses...)
}

// Testcase returns the testcase named name.
func (f FileResult) Testcase(name string) (TestcaseResult, bool) {
	i := sort.Search(len(f.Testcases), func(i int) bool { return f.Testcases[i].Name >= name })
	if i < len(f.Testcases) && f.Testcases[i].Name == name {
		return f.Testcases[i], true
	}
	return TestcaseResult{}, false
}

// Elapsed sums testcase elapsed times.
func (f FileResult) Elapsed() float64 {
	var total float64
	for _, tc := range f.Testcases {
		total += tc.Elapsed
	}
	return total
}

type fileResultJSON struct {
	Status            status.JudgeStatus `json:"status"`
	LastExecutionTime time.Time          `json:"last_execution_time,omitzero"`
	Testcases         []TestcaseResult   `json:"testcases"`
}

// MarshalJSON includes the derived status for readers of the report.
func (f FileResult) MarshalJSON() ([]byte, error) {
	tcs := f.Testcases
	if tcs == nil {
		tcs = []TestcaseResult{}
	}
	return json.Marshal(fileResultJSON{
		Status:            f.Status(),
		LastExecutionTime: f.LastExecutionTime,
		Testcases:         tcs,
	})
}

// UnmarshalJSON ignores the stored status and recomputes it from testcases.
func (f *FileResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		LastExecutionTime time.Time        `json:"last_execution_time"`
		Testcases         []TestcaseResult `json:"testcases"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for i, tc := range raw.Testcases {
		if tc.Name == "" {
			return fmt.Errorf("testcase %d has no name", i)
		}
		if !tc.Status.IsValid() {
			return fmt.Errorf("testcase %s has no status", tc.Name)
		}
		if tc.Elapsed < 0 {
			return fmt.Errorf("testcase %s has negative elapsed time", tc.Name)
		}
	}
	*f = NewFileResult(raw.LastExecutionTime, raw.Testcases...)
	return nil
}

// RunInfo describes one verification run (one shard).
type RunInfo struct {
	ID           string            `json:"id"`
	Label        string            `json:"label,omitempty"`
	StartedAt    time.Time         `json:"started_at,omitzero"`
	TotalSeconds float64           `json:"total_seconds"`
	Environment  map[string]string `json:"environment,omitempty"`
}

// NewRun returns a RunInfo with a fresh random ID.
func NewRun(label string, startedAt time.Time, env map[string]string) RunInfo {
	return RunInfo{
		ID:          uuid.NewString(),
		Label:       label,
		StartedAt:   startedAt.UTC(),
		Environment: maps.Clone(env),
	}
}

// VerifyCommandResult is a whole report: the runs that produced it and the
// result for each file path.
type VerifyCommandResult struct {
	Runs  []RunInfo
	Files map[string]FileResult
}

// New returns a report for a single run.
func New(run RunInfo, files map[string]FileResult) VerifyCommandResult {
	if files == nil {
		files = map[string]FileResult{}
	}
	return VerifyCommandResult{Runs: []RunInfo{run}, Files: files}
}

// TotalSeconds sums the run durations.
func (r VerifyCommandResult) TotalSeconds() float64 {
	var total float64
	for _, run := range r.Runs {
		total += run.TotalSeconds
	}
	return total
}

// Paths returns the file paths in sorted order.
func (r VerifyCommandResult) Paths() []string {
	out := make([]string, 0, len(r.Files))
	for p := range r.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

type verifyCommandResultJSON struct {
	TotalSeconds float64               `json:"total_seconds"`
	Runs         []RunInfo             `json:"runs"`
	Files        map[string]FileResult `json:"files"`
}

// MarshalJSON writes total_seconds, runs and files. total_seconds is derived.
func (r VerifyCommandResult) MarshalJSON() ([]byte, error) {
	runs := r.Runs
	if runs == nil {
		runs = []RunInfo{}
	}
	files := r.Files
	if files == nil {
		files = map[string]FileResult{}
	}
	return json.Marshal(verifyCommandResultJSON{
		TotalSeconds: r.TotalSeconds(),
		Runs:         runs,
		Files:        files,
	})
}

// UnmarshalJSON reads a report with the same checks as Decode;
// total_seconds is recomputed from runs.
func (r *VerifyCommandResult) UnmarshalJSON(data []byte) error {
	res, err := Parse(data)
	if err != nil {
		return err
	}
	*r = res
	return nil
}
