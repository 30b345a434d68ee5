package pathref

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	verrors "github.com/NielsdaWheelz/verilib/internal/errors"
)

func TestResolve(t *testing.T) {
	paths := []string{
		"lib/a.hpp",
		"lib/data.hpp",
		"lib/graph/scc.hpp",
		"test/graph/scc.test.cpp",
		"other/graph/scc.hpp",
		"scc.hpp",
	}

	tests := []struct {
		name      string
		input     string
		want      string
		wantErr   error // nil, *ErrNotFound, or *ErrAmbiguous
		wantCands []string
	}{
		{name: "exact match", input: "lib/a.hpp", want: "lib/a.hpp"},
		{name: "unique suffix", input: "a.hpp", want: "lib/a.hpp"},
		{name: "suffix respects slash boundary", input: "ta.hpp", wantErr: &ErrNotFound{}},
		{name: "exact wins over suffix ambiguity", input: "scc.hpp", want: "scc.hpp"},
		{
			name:      "ambiguous suffix",
			input:     "graph/scc.hpp",
			wantErr:   &ErrAmbiguous{},
			wantCands: []string{"lib/graph/scc.hpp", "other/graph/scc.hpp"},
		},
		{name: "leading dot slash", input: "./lib/a.hpp", want: "lib/a.hpp"},
		{name: "backslashes", input: `lib\a.hpp`, want: "lib/a.hpp"},
		{name: "whitespace", input: "  a.hpp\n", want: "lib/a.hpp"},
		{name: "empty input", input: "  ", wantErr: &ErrNotFound{}},
		{name: "not found", input: "missing.hpp", wantErr: &ErrNotFound{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.input, paths)
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("Resolve() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("Resolve() = %q, want %q", got, tt.want)
				}
			case *ErrNotFound:
				var e *ErrNotFound
				if !errors.As(err, &e) {
					t.Fatalf("Resolve() error = %v, want %T", err, want)
				}
			case *ErrAmbiguous:
				var e *ErrAmbiguous
				if !errors.As(err, &e) {
					t.Fatalf("Resolve() error = %v, want %T", err, want)
				}
				if diff := cmp.Diff(tt.wantCands, e.Candidates); diff != "" {
					t.Errorf("candidates mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestResolveErr(t *testing.T) {
	paths := []string{"lib/x/a.hpp", "lib/y/a.hpp"}

	_, err := ResolveErr("a.hpp", paths, "input.json")
	if got := verrors.GetCode(err); got != verrors.EPathAmbiguous {
		t.Fatalf("code = %q, want %q", got, verrors.EPathAmbiguous)
	}
	if got := verrors.GetDetail(err, "candidates"); got != "lib/x/a.hpp, lib/y/a.hpp" {
		t.Errorf("candidates = %q", got)
	}
	if got := verrors.GetDetail(err, "input"); got != "input.json" {
		t.Errorf("input = %q", got)
	}

	_, err = ResolveErr("b.hpp", paths, "input.json")
	if got := verrors.GetCode(err); got != verrors.ENotFound {
		t.Errorf("code = %q, want %q", got, verrors.ENotFound)
	}

	p, err := ResolveErr("x/a.hpp", paths, "input.json")
	if err != nil || p != "lib/x/a.hpp" {
		t.Errorf("ResolveErr() = %q, %v", p, err)
	}
}
