package verification

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/status"
)

func ptr(f float64) *float64 { return &f }

func TestList_RoundTrip(t *testing.T) {
	in := List{
		Const{Status: status.Skipped},
		Command{Name: "unit", Command: ShellCommand{Args: []string{"go", "test", "./..."}}},
		Problem{
			Problem: "https://judge.yosupo.jp/problem/aplusb",
			Command: ShellCommand{Line: "./a.out"},
			Compile: &ShellCommand{Args: []string{"g++", "-O2", "main.cpp"}, Cwd: "build"},
			TLE:     ptr(10),
			Error:   ptr(1e-6),
		},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out List
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, data)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_TypeFirst(t *testing.T) {
	b, err := Encode(Const{Status: status.Success})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"type":"const","status":"success"}`
	if string(b) != want {
		t.Errorf("Encode = %s, want %s", b, want)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not an object", raw: `"const"`},
		{name: "missing type", raw: `{"status":"success"}`},
		{name: "unknown type", raw: `{"type":"oracle"}`},
		{name: "const missing status", raw: `{"type":"const"}`},
		{name: "const bad status", raw: `{"type":"const","status":"passed"}`},
		{name: "command missing command", raw: `{"type":"command"}`},
		{name: "command empty array", raw: `{"type":"command","command":[]}`},
		{name: "problem missing url", raw: `{"type":"problem","command":"./a.out"}`},
		{name: "problem relative url", raw: `{"type":"problem","problem":"aplusb","command":"./a.out"}`},
		{name: "problem negative tle", raw: `{"type":"problem","problem":"https://x.test/p","command":"./a.out","tle":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != errors.EInvalidVerification {
				t.Errorf("code = %q, want %q", got, errors.EInvalidVerification)
			}
		})
	}
}

func TestList_ErrorCarriesIndex(t *testing.T) {
	var l List
	err := json.Unmarshal([]byte(`[{"type":"const","status":"success"},{"type":"x"}]`), &l)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := errors.GetDetail(err, "offset"); got != "1" {
		t.Errorf("offset = %q, want 1", got)
	}
}

func TestShellCommand_Forms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ShellCommand
	}{
		{name: "string", raw: `"make test"`, want: ShellCommand{Line: "make test"}},
		{name: "array", raw: `["make","test"]`, want: ShellCommand{Args: []string{"make", "test"}}},
		{
			name: "object",
			raw:  `{"command":["make"],"env":{"CC":"clang"},"cwd":"src"}`,
			want: ShellCommand{Args: []string{"make"}, Env: map[string]string{"CC": "clang"}, Cwd: "src"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ShellCommand
			if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			b, err := json.Marshal(got)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(b) != tt.raw {
				t.Errorf("Marshal = %s, want %s", b, tt.raw)
			}
		})
	}
}

func TestShellCommand_Rejects(t *testing.T) {
	for _, raw := range []string{`""`, `[]`, `42`, `{"env":{}}`, `[1,2]`} {
		var c ShellCommand
		if err := json.Unmarshal([]byte(raw), &c); err == nil {
			t.Errorf("Unmarshal(%s) expected error", raw)
		}
	}
}
