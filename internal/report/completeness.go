// Package report checks a merged verification result against the input it
// was produced for.
package report

import (
	"sort"

	"github.com/NielsdaWheelz/verilib/internal/result"
	"github.com/NielsdaWheelz/verilib/internal/status"
	"github.com/NielsdaWheelz/verilib/internal/verifyinput"
)

// CompletenessResult holds the result of result completeness validation.
type CompletenessResult struct {
	// Complete is true if every verification file has a result and none
	// failed.
	Complete bool `json:"complete"`

	// Missing lists verification files with no result, usually a shard that
	// never reported.
	Missing []string `json:"missing"`

	// Failing lists verification files whose status is a failure.
	Failing []string `json:"failing"`

	// Skipped lists verification files whose status is SKIP. Skips do not
	// make a result incomplete.
	Skipped []string `json:"skipped"`

	// Accepted lists verification files whose status is AC.
	Accepted []string `json:"accepted"`

	// Unverified lists files that are neither verification files nor
	// exercised by one.
	Unverified []string `json:"unverified"`

	// Unknown lists result paths that the input does not know, e.g. a
	// deleted test.
	Unknown []string `json:"unknown"`

	// Statuses maps each verification file with a result to its status.
	Statuses map[string]status.JudgeStatus `json:"statuses"`
}

// CheckCompleteness compares res against in.
func CheckCompleteness(in *verifyinput.Input, res result.VerifyCommandResult) *CompletenessResult {
	out := &CompletenessResult{
		Missing:    make([]string, 0),
		Failing:    make([]string, 0),
		Skipped:    make([]string, 0),
		Accepted:   make([]string, 0),
		Unverified: make([]string, 0),
		Unknown:    make([]string, 0),
		Statuses:   make(map[string]status.JudgeStatus),
	}

	for _, p := range in.VerificationFiles() {
		fr, ok := res.Files[p]
		if !ok {
			out.Missing = append(out.Missing, p)
			continue
		}
		s := fr.Status()
		out.Statuses[p] = s
		switch s.Class() {
		case status.Success:
			out.Accepted = append(out.Accepted, p)
		case status.Skipped:
			out.Skipped = append(out.Skipped, p)
		default:
			out.Failing = append(out.Failing, p)
		}
	}

	vw := in.VerifiedWith()
	for _, p := range in.Paths() {
		f, _ := in.File(p)
		if !f.IsVerification() && vw.Get(p).Len() == 0 {
			out.Unverified = append(out.Unverified, p)
		}
	}

	for p := range res.Files {
		if !in.Has(p) {
			out.Unknown = append(out.Unknown, p)
		}
	}
	sort.Strings(out.Unknown)

	out.Complete = len(out.Missing) == 0 && len(out.Failing) == 0
	return out
}

// Coverage returns the fraction of non-verification files exercised by at
// least one verification file, or 1 when there are none.
func (c *CompletenessResult) Coverage(in *verifyinput.Input) float64 {
	libs := 0
	for _, p := range in.Paths() {
		if f, _ := in.File(p); !f.IsVerification() {
			libs++
		}
	}
	if libs == 0 {
		return 1
	}
	return float64(libs-len(c.Unverified)) / float64(libs)
}
