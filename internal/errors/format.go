// Package errors provides error formatting for verilib CLI output.
package errors

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PrintOptions controls error output formatting.
type PrintOptions struct {
	// Verbose enables detailed error output with more context keys.
	Verbose bool
}

// Context key whitelist (default mode, in order)
var defaultContextKeys = []string{
	"op",
	"path",
	"other_path",
	"input",
	"result",
	"config",
	"extension",
	"offset",
	"marker",
}

// Additional context keys for verbose mode
var verboseContextKeys = []string{
	"op",
	"path",
	"other_path",
	"input",
	"result",
	"config",
	"extension",
	"language",
	"offset",
	"marker",
	"line",
	"count",
	"candidates",
	"hint",
}

// Truncation limits
const (
	maxValueLen      = 256 // Max chars for single-line context values
	maxExtraValueLen = 128 // Max chars for extra section values
)

// Format formats an error for display without I/O.
// Returns the formatted string ready for printing.
func Format(err error, opts PrintOptions) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	ve, ok := AsVerilibError(err)
	if !ok {
		sb.WriteString(err.Error())
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString("error_code: ")
	sb.WriteString(string(ve.Code))
	sb.WriteString("\n")

	sb.WriteString(ve.Msg)
	sb.WriteString("\n")

	contextKeys := defaultContextKeys
	if opts.Verbose {
		contextKeys = verboseContextKeys
	}

	printedKeys := make(map[string]bool)
	wroteBlank := false

	for _, key := range contextKeys {
		if ve.Details == nil {
			break
		}
		val, ok := ve.Details[key]
		if !ok || val == "" || key == "hint" {
			continue
		}
		if !wroteBlank {
			sb.WriteString("\n")
			wroteBlank = true
		}
		printedKeys[key] = true
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(sanitizeValue(val, maxValueLen))
		sb.WriteString("\n")
	}

	// In verbose mode, print extra keys under extra: section
	if opts.Verbose && ve.Details != nil {
		var extraKeys []string
		for key, val := range ve.Details {
			if !printedKeys[key] && key != "hint" && val != "" {
				extraKeys = append(extraKeys, key)
			}
		}
		if len(extraKeys) > 0 {
			sort.Strings(extraKeys)
			sb.WriteString("\nextra:\n")
			for _, key := range extraKeys {
				sb.WriteString("  ")
				sb.WriteString(key)
				sb.WriteString(": ")
				sb.WriteString(sanitizeValue(ve.Details[key], maxExtraValueLen))
				sb.WriteString("\n")
			}
		}
	}

	if hint := ve.Details["hint"]; hint != "" {
		sb.WriteString("\nhint: ")
		sb.WriteString(hint)
		sb.WriteString("\n")
	}

	for _, try := range deriveTryLines(ve) {
		sb.WriteString("try: ")
		sb.WriteString(try)
		sb.WriteString("\n")
	}

	return sb.String()
}

// PrintWithOptions writes a formatted error to w with the given options.
func PrintWithOptions(w io.Writer, err error, opts PrintOptions) {
	if err == nil {
		return
	}
	_, _ = io.WriteString(w, Format(err, opts))
}

// sanitizeValue sanitizes a value for single-line context output.
// - Trims trailing whitespace first
// - Normalizes CRLF to LF
// - Replaces newlines with literal \n
// - Truncates to maxLen chars
func sanitizeValue(val string, maxLen int) string {
	val = strings.TrimRight(val, " \t\r\n")
	val = strings.ReplaceAll(val, "\r\n", "\n")
	val = strings.ReplaceAll(val, "\n", "\\n")

	if len(val) > maxLen {
		return val[:maxLen] + "…"
	}

	return val
}

// deriveTryLines returns actionable suggestions based on error code.
func deriveTryLines(ve *VerilibError) []string {
	if ve == nil {
		return nil
	}

	var lines []string

	switch ve.Code {
	case EEmptyMerge:
		lines = append(lines, "verilib merge-result <result.json>...")
	case EPathAmbiguous:
		if ve.Details != nil && ve.Details["input"] != "" {
			lines = append(lines, fmt.Sprintf("verilib graph depends-on --input %s <full/path>", ve.Details["input"]))
		}
	case EVerifyFailed:
		if ve.Details != nil && ve.Details["input"] != "" {
			lines = append(lines, fmt.Sprintf("verilib plan --input %s", ve.Details["input"]))
		}
	}

	return lines
}

// FormatHint formats a hint for output.
// If hint already starts with "hint:", returns as-is.
// Otherwise prepends "hint: ".
func FormatHint(hint string) string {
	if hint == "" {
		return ""
	}
	if strings.HasPrefix(hint, "hint:") {
		return hint
	}
	return "hint: " + hint
}

// GetHint extracts the hint from an error's details, if present.
func GetHint(err error) string {
	return GetDetail(err, "hint")
}
