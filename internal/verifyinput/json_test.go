package verifyinput

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NielsdaWheelz/verilib/internal/errors"
)

func TestEncode_Shape(t *testing.T) {
	in, err := Parse([]byte(`{
		"files": {
			"foo/bar.py": {},
			"foo/baz.py": {
				"document_attributes": {"title": "foo-baz"},
				"dependencies": ["foo/bar.py"],
				"verification": [{"type": "const", "status": "success"}]
			}
		}
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := map[string]any{
		"files": map[string]any{
			"foo/bar.py": map[string]any{
				"dependencies":        []any{},
				"document_attributes": map[string]any{},
				"verification":        []any{},
			},
			"foo/baz.py": map[string]any{
				"dependencies":        []any{"foo/bar.py"},
				"document_attributes": map[string]any{"title": "foo-baz"},
				"verification": []any{
					map[string]any{"type": "const", "status": "success"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("encoded shape (-want +got):\n%s", diff)
	}

	again, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("re-Parse: %v", err)
	}
	if diff := cmp.Diff(in.Files(), again.Files()); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestEncode_OmitsImplicitLeaves(t *testing.T) {
	in, err := New(File{Path: "a.cpp", Dependencies: []string{"b.hpp"}})
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte(`"b.hpp":`)) {
		t.Errorf("implicit leaf written as a file: %s", data)
	}
}

func TestDecode_DuplicateKeys(t *testing.T) {
	t.Run("conflicting", func(t *testing.T) {
		_, err := Parse([]byte(`{"files": {"a.py": {}, "a.py": {"dependencies": ["b.py"]}}}`))
		if got := errors.GetCode(err); got != errors.EDuplicateFile {
			t.Fatalf("code = %q, want %q", got, errors.EDuplicateFile)
		}
	})
	t.Run("normalizes to the same path", func(t *testing.T) {
		_, err := Parse([]byte(`{"files": {"x/a.py": {}, "x/./a.py": {"dependencies": ["b.py"]}}}`))
		if got := errors.GetCode(err); got != errors.EDuplicateFile {
			t.Fatalf("code = %q, want %q", got, errors.EDuplicateFile)
		}
		if got := errors.GetDetail(err, "other_path"); got != "x/./a.py" {
			t.Errorf("other_path = %q", got)
		}
	})
	t.Run("identical", func(t *testing.T) {
		in, err := Parse([]byte(`{"files": {"a.py": {}, "a.py": {}}}`))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if in.Len() != 1 {
			t.Errorf("Len = %d, want 1", in.Len())
		}
	})
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		code errors.Code
	}{
		{name: "not json", raw: `nope`, code: errors.EInvalidInput},
		{name: "array", raw: `[]`, code: errors.EInvalidInput},
		{name: "missing files", raw: `{}`, code: errors.EInvalidInput},
		{name: "files twice", raw: `{"files": {}, "files": {}}`, code: errors.EInvalidInput},
		{name: "file not object", raw: `{"files": {"a.py": 3}}`, code: errors.EInvalidInput},
		{name: "bad verification", raw: `{"files": {"a.py": {"verification": [{"type": "x"}]}}}`, code: errors.EInvalidVerification},
		{name: "bad path", raw: `{"files": {"/abs.py": {}}}`, code: errors.EInvalidPath},
		{name: "truncated", raw: `{"files": {"a.py": {}`, code: errors.EInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err=%v)", got, tt.code, err)
			}
		})
	}
}

func TestDecode_VerificationErrorNamesFile(t *testing.T) {
	_, err := Parse([]byte(`{"files": {"t/a.test.py": {"verification": [{"type": "const"}]}}}`))
	if got := errors.GetDetail(err, "path"); got != "t/a.test.py" {
		t.Errorf("path detail = %q", got)
	}
}

func TestDecode_IgnoresUnknownTopLevelKeys(t *testing.T) {
	in, err := Parse([]byte(`{"version": 2, "files": {"a.py": {}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !in.Declared("a.py") {
		t.Error("a.py not declared")
	}
}
