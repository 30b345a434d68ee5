// Package verification defines how a single file is checked: a constant
// outcome, a local command, or a judge problem.
package verification

import (
	"github.com/NielsdaWheelz/verilib/internal/status"
)

// Type discriminates the Verification variants in JSON.
type Type string

const (
	TypeConst   Type = "const"
	TypeCommand Type = "command"
	TypeProblem Type = "problem"
)

// Verification is one way of checking a file.
type Verification interface {
	Type() Type
	// Title is a display name, empty when none was declared.
	Title() string
}

// Const is a verification whose outcome is fixed, e.g. an ignored file.
type Const struct {
	Name   string              `json:"name,omitempty"`
	Status status.ResultStatus `json:"status"`
}

func (Const) Type() Type       { return TypeConst }
func (v Const) Title() string { return v.Name }

// Command runs a local command; exit status zero is success.
type Command struct {
	Name    string        `json:"name,omitempty"`
	Command ShellCommand  `json:"command"`
	Compile *ShellCommand `json:"compile,omitempty"`
	Tempdir string        `json:"tempdir,omitempty"`
}

func (Command) Type() Type       { return TypeCommand }
func (v Command) Title() string { return v.Name }

// Problem runs a command against the test data of a judge problem. An
// empty Command means the runner derives it from the file's language.
type Problem struct {
	Name    string        `json:"name,omitempty"`
	Problem string        `json:"problem"`
	Command ShellCommand  `json:"command,omitzero"`
	Compile *ShellCommand `json:"compile,omitempty"`
	Tempdir string        `json:"tempdir,omitempty"`
	// Error is the absolute tolerance for floating point answers.
	Error *float64 `json:"error,omitempty"`
	// TLE is the time limit in seconds.
	TLE *float64 `json:"tle,omitempty"`
	// MLE is the memory limit in megabytes.
	MLE *float64 `json:"mle,omitempty"`
}

func (Problem) Type() Type       { return TypeProblem }
func (v Problem) Title() string { return v.Name }
