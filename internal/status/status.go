// Package status defines verification outcome enums and their total order.
// No filesystem or network calls are made in this package.
package status

import (
	"fmt"
)

// ResultStatus is the coarse outcome of a verification: it is what a const
// verification declares and what each JudgeStatus collapses to.
type ResultStatus string

const (
	Success ResultStatus = "success"
	Failure ResultStatus = "failure"
	Skipped ResultStatus = "skipped"
)

// IsValid reports whether s is a known ResultStatus.
func (s ResultStatus) IsValid() bool {
	switch s {
	case Success, Failure, Skipped:
		return true
	}
	return false
}

// MarshalText rejects unknown values so invalid reports are never written.
func (s ResultStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid result status %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText parses a ResultStatus.
func (s *ResultStatus) UnmarshalText(text []byte) error {
	v := ResultStatus(text)
	if !v.IsValid() {
		return fmt.Errorf("invalid result status %q", string(text))
	}
	*s = v
	return nil
}

// JudgeStatus is the verdict for a single testcase, and the aggregate verdict
// of a file.
type JudgeStatus string

const (
	AC   JudgeStatus = "AC"   // accepted
	WA   JudgeStatus = "WA"   // wrong answer
	RE   JudgeStatus = "RE"   // runtime error
	TLE  JudgeStatus = "TLE"  // time limit exceeded
	MLE  JudgeStatus = "MLE"  // memory limit exceeded
	CE   JudgeStatus = "CE"   // compile error
	IE   JudgeStatus = "IE"   // internal error (checker or harness)
	SKIP JudgeStatus = "SKIP" // not run
)

// severity is the total order over JudgeStatus, higher is worse.
//
//	AC < SKIP < MLE < TLE < RE < CE < IE < WA
var severity = map[JudgeStatus]int{
	AC:   0,
	SKIP: 1,
	MLE:  2,
	TLE:  3,
	RE:   4,
	CE:   5,
	IE:   6,
	WA:   7,
}

// All returns every JudgeStatus ordered from best to worst.
func All() []JudgeStatus {
	return []JudgeStatus{AC, SKIP, MLE, TLE, RE, CE, IE, WA}
}

// IsValid reports whether s is a known JudgeStatus.
func (s JudgeStatus) IsValid() bool {
	_, ok := severity[s]
	return ok
}

// Severity returns the position of s in the total order. Unknown values sort
// above every known value so they are never mistaken for success.
func (s JudgeStatus) Severity() int {
	if v, ok := severity[s]; ok {
		return v
	}
	return len(severity)
}

// Class collapses a verdict into its ResultStatus.
func (s JudgeStatus) Class() ResultStatus {
	switch s {
	case AC:
		return Success
	case SKIP:
		return Skipped
	default:
		return Failure
	}
}

// MarshalText rejects unknown values.
func (s JudgeStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid judge status %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText parses a JudgeStatus.
func (s *JudgeStatus) UnmarshalText(text []byte) error {
	v := JudgeStatus(text)
	if !v.IsValid() {
		return fmt.Errorf("invalid judge status %q", string(text))
	}
	*s = v
	return nil
}

// FromResult maps a declared ResultStatus (e.g. from a const verification)
// onto the verdict recorded for it.
func FromResult(s ResultStatus) JudgeStatus {
	switch s {
	case Success:
		return AC
	case Skipped:
		return SKIP
	default:
		return WA
	}
}
