// Package pathref resolves user-typed file references against the paths an
// input knows about.
package pathref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NielsdaWheelz/verilib/internal/errors"
)

// ErrNotFound indicates no known path matches (exact or suffix).
type ErrNotFound struct {
	Input string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("path not found: %q", e.Input)
}

// ErrAmbiguous indicates the suffix matched more than one path.
type ErrAmbiguous struct {
	Input      string
	Candidates []string // sorted ascending
}

func (e *ErrAmbiguous) Error() string {
	return fmt.Sprintf("ambiguous path %q matches: %s", e.Input, strings.Join(e.Candidates, ", "))
}

// Resolve resolves input to one of paths.
//
// Resolution rules:
//  1. Input normalization: trim whitespace, use forward slashes, drop a
//     leading "./". Empty after normalization = not found.
//  2. Exact match wins.
//  3. Otherwise, input is a suffix that must start at a "/" boundary, so
//     "a.hpp" matches "lib/a.hpp" but not "lib/data.hpp":
//     - 0 matches: not found
//     - 1 match: resolve
//     - >1 matches: ambiguous (candidates sorted)
func Resolve(input string, paths []string) (string, error) {
	input = normalize(input)
	if input == "" {
		return "", &ErrNotFound{Input: ""}
	}

	for _, p := range paths {
		if p == input {
			return p, nil
		}
	}

	var matches []string
	for _, p := range paths {
		if strings.HasSuffix(p, "/"+input) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return "", &ErrNotFound{Input: input}
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", &ErrAmbiguous{Input: input, Candidates: matches}
	}
}

// ResolveErr is Resolve with failures mapped to E_NOT_FOUND and
// E_PATH_AMBIGUOUS. inputFile names the input the paths came from and is
// carried in the error details.
func ResolveErr(input string, paths []string, inputFile string) (string, error) {
	p, err := Resolve(input, paths)
	if err == nil {
		return p, nil
	}
	switch e := err.(type) {
	case *ErrAmbiguous:
		return "", errors.NewWithDetails(errors.EPathAmbiguous, e.Error(), map[string]string{
			"path":       e.Input,
			"input":      inputFile,
			"candidates": strings.Join(e.Candidates, ", "),
			"count":      fmt.Sprintf("%d", len(e.Candidates)),
		})
	case *ErrNotFound:
		return "", errors.NewWithDetails(errors.ENotFound, e.Error(), map[string]string{
			"path":  e.Input,
			"input": inputFile,
		})
	}
	return "", err
}

func normalize(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\\", "/")
	for strings.HasPrefix(input, "./") {
		input = input[2:]
	}
	return input
}
