package verifyinput

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/status"
	"github.com/NielsdaWheelz/verilib/internal/verification"
)

const fixtureJSON = `{
  "files": {
    "foo/bar1.py": {},
    "foo/bar2.py": {"dependencies": ["foo/bar1.py"]},
    "foo/baz.py": {},
    "foo/barbaz.py": {"dependencies": ["foo/bar2.py", "foo/baz.py"]},
    "hoge/1.py": {},
    "hoge/hoge.py": {"dependencies": ["hoge/fuga.py", "hoge/1.py"]},
    "hoge/piyo.py": {"dependencies": ["hoge/fuga.py", "hoge/hoge.py"]},
    "hoge/fuga.py": {"dependencies": ["hoge/piyo.py"]},
    "hoge/piyopiyo.py": {"dependencies": ["hoge/piyo.py"]},
    "test/test.py": {
      "verification": [{"type": "const", "status": "success"}],
      "dependencies": ["hoge/piyopiyo.py"]
    }
  }
}`

func fixture(t *testing.T) *Input {
	t.Helper()
	in, err := Parse([]byte(fixtureJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return in
}

func TestDependsOn(t *testing.T) {
	in := fixture(t)
	want := map[string][]string{
		"foo/bar1.py":      {},
		"foo/bar2.py":      {"foo/bar1.py"},
		"foo/baz.py":       {},
		"foo/barbaz.py":    {"foo/bar2.py", "foo/baz.py"},
		"hoge/1.py":        {},
		"hoge/hoge.py":     {"hoge/1.py", "hoge/fuga.py"},
		"hoge/piyo.py":     {"hoge/fuga.py", "hoge/hoge.py"},
		"hoge/fuga.py":     {"hoge/piyo.py"},
		"hoge/piyopiyo.py": {"hoge/piyo.py"},
		"test/test.py":     {"hoge/piyopiyo.py"},
	}
	if diff := cmp.Diff(want, in.DependsOn().Map()); diff != "" {
		t.Errorf("DependsOn mismatch (-want +got):\n%s", diff)
	}
}

func TestTransitiveDependsOn(t *testing.T) {
	in := fixture(t)
	cycle := []string{"hoge/1.py", "hoge/fuga.py", "hoge/hoge.py", "hoge/piyo.py"}
	want := map[string][]string{
		"foo/bar1.py":      {"foo/bar1.py"},
		"foo/bar2.py":      {"foo/bar1.py", "foo/bar2.py"},
		"foo/baz.py":       {"foo/baz.py"},
		"foo/barbaz.py":    {"foo/bar1.py", "foo/bar2.py", "foo/barbaz.py", "foo/baz.py"},
		"hoge/1.py":        {"hoge/1.py"},
		"hoge/hoge.py":     cycle,
		"hoge/piyo.py":     cycle,
		"hoge/fuga.py":     cycle,
		"hoge/piyopiyo.py": {"hoge/1.py", "hoge/fuga.py", "hoge/hoge.py", "hoge/piyo.py", "hoge/piyopiyo.py"},
		"test/test.py":     {"hoge/1.py", "hoge/fuga.py", "hoge/hoge.py", "hoge/piyo.py", "hoge/piyopiyo.py", "test/test.py"},
	}
	if diff := cmp.Diff(want, in.TransitiveDependsOn().Map()); diff != "" {
		t.Errorf("TransitiveDependsOn mismatch (-want +got):\n%s", diff)
	}
}

func TestTransitiveDependsOn_CyclicScenario(t *testing.T) {
	in, err := New(
		File{Path: "hoge.py", Dependencies: []string{"fuga.py", "1.py"}},
		File{Path: "fuga.py", Dependencies: []string{"piyo.py"}},
		File{Path: "piyo.py", Dependencies: []string{"fuga.py", "hoge.py"}},
		File{Path: "1.py"},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := in.TransitiveDependsOn().Get("fuga.py").Slice()
	want := []string{"1.py", "fuga.py", "hoge.py", "piyo.py"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("closure of fuga.py (-want +got):\n%s", diff)
	}
	if !in.InCycle("fuga.py") || in.InCycle("1.py") {
		t.Errorf("InCycle: fuga.py=%v 1.py=%v", in.InCycle("fuga.py"), in.InCycle("1.py"))
	}
}

func TestTransitiveDependsOn_LeafIsItself(t *testing.T) {
	in, err := New(File{Path: "leaf.hpp"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if diff := cmp.Diff([]string{"leaf.hpp"}, in.TransitiveDependsOn().Get("leaf.hpp").Slice()); diff != "" {
		t.Errorf("leaf closure (-want +got):\n%s", diff)
	}
}

func TestRequiredBy(t *testing.T) {
	in := fixture(t)
	want := map[string][]string{
		"foo/bar1.py":      {"foo/bar2.py"},
		"foo/bar2.py":      {"foo/barbaz.py"},
		"foo/baz.py":       {"foo/barbaz.py"},
		"foo/barbaz.py":    {},
		"hoge/1.py":        {"hoge/hoge.py"},
		"hoge/hoge.py":     {"hoge/piyo.py"},
		"hoge/piyo.py":     {"hoge/fuga.py", "hoge/piyopiyo.py"},
		"hoge/fuga.py":     {"hoge/hoge.py", "hoge/piyo.py"},
		"hoge/piyopiyo.py": {"test/test.py"},
		"test/test.py":     {},
	}
	if diff := cmp.Diff(want, in.RequiredBy().Map()); diff != "" {
		t.Errorf("RequiredBy mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifiedWith(t *testing.T) {
	in := fixture(t)
	tested := []string{"test/test.py"}
	want := map[string][]string{
		"foo/bar1.py":      {},
		"foo/bar2.py":      {},
		"foo/baz.py":       {},
		"foo/barbaz.py":    {},
		"hoge/1.py":        tested,
		"hoge/hoge.py":     tested,
		"hoge/piyo.py":     tested,
		"hoge/fuga.py":     tested,
		"hoge/piyopiyo.py": tested,
		"test/test.py":     {},
	}
	if diff := cmp.Diff(want, in.VerifiedWith().Map()); diff != "" {
		t.Errorf("VerifiedWith mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifiedWith_SelfOnlyInCycle(t *testing.T) {
	ok := verification.List{verification.Const{Status: status.Success}}
	in, err := New(
		File{Path: "a.test.cpp", Dependencies: []string{"b.hpp"}, Verification: ok},
		File{Path: "b.hpp", Dependencies: []string{"a.test.cpp"}},
		File{Path: "self.test.cpp", Dependencies: []string{"self.test.cpp"}, Verification: ok},
		File{Path: "plain.test.cpp", Verification: ok},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	vw := in.VerifiedWith()
	if !vw.Get("a.test.cpp").Has("a.test.cpp") {
		t.Error("a.test.cpp is on a cycle and should verify itself")
	}
	if !vw.Get("self.test.cpp").Has("self.test.cpp") {
		t.Error("self.test.cpp depends on itself and should verify itself")
	}
	if vw.Get("plain.test.cpp").Len() != 0 {
		t.Errorf("plain.test.cpp verified_with = %v, want empty", vw.Get("plain.test.cpp").Slice())
	}
	if !vw.Get("b.hpp").Has("a.test.cpp") {
		t.Error("b.hpp should be verified with a.test.cpp")
	}
}

func TestRelations_CachedIdentity(t *testing.T) {
	in := fixture(t)
	if in.DependsOn() != in.DependsOn() {
		t.Error("DependsOn returned a new relation")
	}
	if in.TransitiveDependsOn() != in.TransitiveDependsOn() {
		t.Error("TransitiveDependsOn returned a new relation")
	}
	if in.RequiredBy() != in.RequiredBy() {
		t.Error("RequiredBy returned a new relation")
	}
	if in.VerifiedWith() != in.VerifiedWith() {
		t.Error("VerifiedWith returned a new relation")
	}
	for _, k := range Kinds() {
		a, err := in.Relation(k)
		if err != nil {
			t.Fatalf("Relation(%s): %v", k, err)
		}
		b, _ := in.Relation(k)
		if a != b || a.Kind() != k {
			t.Errorf("Relation(%s) not stable", k)
		}
	}
	if _, err := in.Relation("sideways"); err == nil {
		t.Error("expected error for unknown relation")
	}
}

func TestRelations_Properties(t *testing.T) {
	in := fixture(t)
	dep, trans, rb := in.DependsOn(), in.TransitiveDependsOn(), in.RequiredBy()

	for _, p := range in.Paths() {
		if !trans.Get(p).Has(p) {
			t.Errorf("%s not in its own closure", p)
		}
		dep.Get(p).Each(func(q string) {
			if !trans.Get(p).Has(q) {
				t.Errorf("depends_on[%s] has %s but closure does not", p, q)
			}
			if !rb.Get(q).Has(p) {
				t.Errorf("%s depends on %s but required_by[%s] lacks it", p, q, q)
			}
		})
		rb.Get(p).Each(func(q string) {
			if !dep.Get(q).Has(p) {
				t.Errorf("required_by[%s] has %s but depends_on[%s] lacks it", p, q, q)
			}
		})
	}
}

func TestRelations_Total(t *testing.T) {
	in := fixture(t)
	for _, k := range Kinds() {
		r, _ := in.Relation(k)
		if diff := cmp.Diff(in.Paths(), r.Paths()); diff != "" {
			t.Errorf("%s keys (-want +got):\n%s", k, diff)
		}
	}
}

func TestImplicitLeaf(t *testing.T) {
	in, err := New(File{Path: "main.cpp", Dependencies: []string{"vendor/lib.hpp"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if in.Declared("vendor/lib.hpp") || !in.Has("vendor/lib.hpp") {
		t.Fatalf("vendor/lib.hpp should be an undeclared node")
	}
	for _, k := range Kinds() {
		r, _ := in.Relation(k)
		if _, ok := r.Lookup("vendor/lib.hpp"); !ok {
			t.Errorf("%s missing implicit leaf", k)
		}
	}
	if diff := cmp.Diff([]string{"main.cpp"}, in.RequiredBy().Get("vendor/lib.hpp").Slice()); diff != "" {
		t.Errorf("required_by (-want +got):\n%s", diff)
	}
	f, ok := in.File("vendor/lib.hpp")
	if !ok || len(f.Dependencies) != 0 || f.IsVerification() {
		t.Errorf("File(vendor/lib.hpp) = %+v, %v", f, ok)
	}
	if _, ok := in.File("nope"); ok {
		t.Error("File(nope) should not be found")
	}
}

func TestDeterministic_InsertionOrder(t *testing.T) {
	files := []File{
		{Path: "c", Dependencies: []string{"a"}},
		{Path: "a", Dependencies: []string{"b"}},
		{Path: "b", Dependencies: []string{"a", "d"}},
	}
	fwd, err := New(files...)
	if err != nil {
		t.Fatal(err)
	}
	rev, err := New(files[2], files[1], files[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range Kinds() {
		a, _ := fwd.Relation(k)
		b, _ := rev.Relation(k)
		if diff := cmp.Diff(a.Map(), b.Map()); diff != "" {
			t.Errorf("%s differs by insertion order:\n%s", k, diff)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	in := fixture(t)
	const workers = 16
	got := make([][4]*Relation, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Start from different relations so first computations race.
			order := []func() *Relation{in.VerifiedWith, in.TransitiveDependsOn, in.RequiredBy, in.DependsOn}
			for j := range order {
				f := order[(i+j)%len(order)]
				r := f()
				switch r.Kind() {
				case KindDependsOn:
					got[i][0] = r
				case KindTransitiveDependsOn:
					got[i][1] = r
				case KindRequiredBy:
					got[i][2] = r
				case KindVerifiedWith:
					got[i][3] = r
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if got[i] != got[0] {
			t.Fatalf("worker %d observed different relations", i)
		}
	}
}

func TestBuilder_Duplicates(t *testing.T) {
	b := NewBuilder()
	f := File{Path: "a.hpp", Dependencies: []string{"b.hpp"}}
	if err := b.Add(f); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Same content, written differently.
	if err := b.Add(File{Path: "./a.hpp", Dependencies: []string{"b.hpp", "b.hpp"}}); err != nil {
		t.Errorf("identical redeclaration rejected: %v", err)
	}
	err := b.Add(File{Path: "a.hpp", Dependencies: []string{"c.hpp"}})
	if got := errors.GetCode(err); got != errors.EDuplicateFile {
		t.Fatalf("code = %q, want %q", got, errors.EDuplicateFile)
	}
	if got := errors.GetDetail(err, "path"); got != "a.hpp" {
		t.Errorf("path detail = %q", got)
	}
	if b.Len() != 1 {
		t.Errorf("Len = %d, want 1", b.Len())
	}
}

func TestBuilder_InvalidPaths(t *testing.T) {
	tests := []struct {
		name string
		file File
	}{
		{name: "empty path", file: File{Path: ""}},
		{name: "absolute path", file: File{Path: "/etc/passwd"}},
		{name: "escaping path", file: File{Path: "../x.hpp"}},
		{name: "escaping dependency", file: File{Path: "a.hpp", Dependencies: []string{"../../b.hpp"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBuilder().Add(tt.file)
			if got := errors.GetCode(err); got != errors.EInvalidPath {
				t.Errorf("code = %q, want %q (err=%v)", got, errors.EInvalidPath, err)
			}
		})
	}
}

func TestVerificationFiles(t *testing.T) {
	in := fixture(t)
	if diff := cmp.Diff([]string{"test/test.py"}, in.VerificationFiles()); diff != "" {
		t.Errorf("VerificationFiles (-want +got):\n%s", diff)
	}
}

func TestFile_Title(t *testing.T) {
	f := File{DocumentAttributes: map[string]any{"title": "Segment Tree"}}
	if f.Title() != "Segment Tree" {
		t.Errorf("Title = %q", f.Title())
	}
	if (&File{}).Title() != "" {
		t.Error("Title of empty file should be empty")
	}
}
