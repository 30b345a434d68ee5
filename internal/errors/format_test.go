package errors

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFormatFirstLineAlwaysErrorCode(t *testing.T) {
	tests := []struct {
		name string
		code Code
		msg  string
	}{
		{"usage error", EUsage, "bad args"},
		{"duplicate file", EDuplicateFile, "a.cpp declared twice"},
		{"empty merge", EEmptyMerge, "nothing to merge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := Format(New(tt.code, tt.msg), PrintOptions{})
			lines := strings.Split(output, "\n")

			if lines[0] != "error_code: "+string(tt.code) {
				t.Errorf("first line = %q", lines[0])
			}
			if lines[1] != tt.msg {
				t.Errorf("second line = %q, want %q", lines[1], tt.msg)
			}
		})
	}
}

func TestFormatContextKeysInOrder(t *testing.T) {
	err := NewWithDetails(EDuplicateFile, "conflicting declaration", map[string]string{
		"other_path": "lib/./a.hpp",
		"path":       "lib/a.hpp",
		"op":         "resolve",
	})

	output := Format(err, PrintOptions{})

	opIdx := strings.Index(output, "op:")
	pathIdx := strings.Index(output, "path: lib/a.hpp")
	otherIdx := strings.Index(output, "other_path:")

	if opIdx < 0 || pathIdx < 0 || otherIdx < 0 {
		t.Fatalf("missing context keys in output:\n%s", output)
	}
	if !(opIdx < pathIdx && pathIdx < otherIdx) {
		t.Errorf("context keys out of order:\n%s", output)
	}
}

func TestFormatUnknownKeysHiddenByDefault(t *testing.T) {
	err := NewWithDetails(EInvalidPath, "bad path", map[string]string{
		"path":        "../x",
		"unknown_key": "should not appear",
	})

	output := Format(err, PrintOptions{Verbose: false})
	if strings.Contains(output, "unknown_key") {
		t.Error("unknown_key should not appear in default mode")
	}

	output = Format(err, PrintOptions{Verbose: true})
	if !strings.Contains(output, "extra:\n  unknown_key: should not appear") {
		t.Errorf("verbose output missing extra section:\n%s", output)
	}
}

func TestFormatMultilineValueEscaped(t *testing.T) {
	err := NewWithDetails(EFrontMatter, "bad yaml", map[string]string{
		"marker": "---\r\nline2\n",
	})

	output := Format(err, PrintOptions{})
	if !strings.Contains(output, `marker: ---\nline2`) {
		t.Errorf("multiline value not escaped:\n%s", output)
	}
}

func TestFormatLongValuesTruncated(t *testing.T) {
	err := NewWithDetails(EInvalidPath, "bad", map[string]string{
		"path": strings.Repeat("a", 300),
	})

	output := Format(err, PrintOptions{})
	if !strings.Contains(output, strings.Repeat("a", maxValueLen)+"…") {
		t.Error("long value should be truncated with ellipsis")
	}
}

func TestFormatNilDetailsMap(t *testing.T) {
	output := Format(New(EUsage, "x"), PrintOptions{Verbose: true})
	if output != "error_code: E_USAGE\nx\n" {
		t.Errorf("Format() = %q", output)
	}
}

func TestFormatHintAndTryLines(t *testing.T) {
	err := NewWithDetails(EPathAmbiguous, "ambiguous path", map[string]string{
		"input": "verify_files.json",
		"hint":  "use the full path",
	})

	output := Format(err, PrintOptions{})

	hintIdx := strings.Index(output, "\nhint: use the full path\n")
	tryIdx := strings.Index(output, "try: verilib graph depends-on --input verify_files.json <full/path>")
	if hintIdx < 0 || tryIdx < 0 {
		t.Fatalf("missing hint/try lines:\n%s", output)
	}
	if hintIdx > tryIdx {
		t.Error("hint should come before try lines")
	}
}

func TestDeriveTryLines(t *testing.T) {
	tests := []struct {
		name string
		err  *VerilibError
		want []string
	}{
		{"nil", nil, nil},
		{"empty merge", &VerilibError{Code: EEmptyMerge}, []string{"verilib merge-result <result.json>..."}},
		{"verify failed", &VerilibError{Code: EVerifyFailed, Details: map[string]string{"input": "in.json"}}, []string{"verilib plan --input in.json"}},
		{"verify failed without input", &VerilibError{Code: EVerifyFailed}, nil},
		{"usage", &VerilibError{Code: EUsage}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveTryLines(tt.err)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("deriveTryLines() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrintWithOptions(t *testing.T) {
	var buf bytes.Buffer
	PrintWithOptions(&buf, nil, PrintOptions{})
	if buf.Len() != 0 {
		t.Error("nil error should print nothing")
	}

	PrintWithOptions(&buf, errors.New("plain"), PrintOptions{})
	if buf.String() != "plain\n" {
		t.Errorf("PrintWithOptions(plain) = %q", buf.String())
	}
}

func TestFormatHint(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"do x":             "hint: do x",
		"hint: already ok": "hint: already ok",
	}
	for in, want := range tests {
		if got := FormatHint(in); got != want {
			t.Errorf("FormatHint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetHint(t *testing.T) {
	if got := GetHint(NewWithDetails(EUsage, "x", map[string]string{"hint": "h"})); got != "h" {
		t.Errorf("GetHint() = %q", got)
	}
	if got := GetHint(errors.New("plain")); got != "" {
		t.Errorf("GetHint(plain) = %q", got)
	}
}
