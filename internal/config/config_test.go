package config

import (
	iofs "io/fs"
	"os"
	"testing"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
)

// stubFS is a minimal fs.FS for testing.
type stubFS struct {
	files map[string][]byte
	err   error
}

func newStubFS() *stubFS {
	return &stubFS{files: make(map[string][]byte)}
}

func (s *stubFS) ReadFile(path string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	data, ok := s.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (s *stubFS) MkdirAll(path string, perm os.FileMode) error         { return nil }
func (s *stubFS) WriteFile(path string, d []byte, p os.FileMode) error { return nil }
func (s *stubFS) Stat(path string) (iofs.FileInfo, error)              { return nil, os.ErrNotExist }
func (s *stubFS) Rename(o, n string) error                             { return nil }
func (s *stubFS) Remove(path string) error                             { return nil }
func (s *stubFS) WalkDir(root string, fn iofs.WalkDirFunc) error       { return nil }

// Verify stubFS implements fs.FS interface (compile-time check)
var _ fs.FS = (*stubFS)(nil)

func TestLoad_MissingFile(t *testing.T) {
	cfg, found, err := Load(newStubFS(), "/repo/verilib.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected found=false for missing config")
	}
	if cfg.DataDir != ".verilib" {
		t.Errorf("DataDir = %q, want .verilib", cfg.DataDir)
	}
	if cfg.Docs.OutputDir != ".verilib/markdown" {
		t.Errorf("Docs.OutputDir = %q", cfg.Docs.OutputDir)
	}
}

func TestLoad_ReadError(t *testing.T) {
	stub := newStubFS()
	stub.err = os.ErrPermission
	_, _, err := Load(stub, "/repo/verilib.yml")
	if errors.GetCode(err) != errors.EInvalidConfig {
		t.Errorf("expected E_INVALID_CONFIG, got %s", errors.GetCode(err))
	}
}

func TestLoad_Valid(t *testing.T) {
	stub := newStubFS()
	stub.files["/repo/verilib.yml"] = []byte(`
version: 1
include_paths:
  - ./include
  - third_party\ac-library
languages:
  cxx:
    alias: cpp
data_dir: build/verilib
`)
	cfg, found, err := Load(stub, "/repo/verilib.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected found=true")
	}
	if got := cfg.IncludePaths; len(got) != 2 || got[0] != "include" || got[1] != "third_party/ac-library" {
		t.Errorf("IncludePaths = %v", got)
	}
	if cfg.Languages["cxx"].Alias != "cpp" {
		t.Errorf("Languages = %v", cfg.Languages)
	}
	if cfg.DataDir != "build/verilib" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Docs.OutputDir != "build/verilib/markdown" {
		t.Errorf("Docs.OutputDir = %q, want build/verilib/markdown", cfg.Docs.OutputDir)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	stub := newStubFS()
	stub.files["/repo/verilib.yml"] = []byte("version: 1\n")
	cfg, found, err := Load(stub, "/repo/verilib.yml")
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if cfg.Languages == nil {
		t.Error("Languages should default to an empty map")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{name: "empty document", data: "", wantMsg: "version must be 1"},
		{name: "wrong version", data: "version: 2\n", wantMsg: "version must be 1"},
		{name: "unknown field", data: "version: 1\nrunners: {}\n"},
		{name: "bad yaml", data: "version: [1\n"},
		{name: "include escapes", data: "version: 1\ninclude_paths: [../x]\n", wantMsg: "include_paths entries must be relative paths inside the repository"},
		{name: "dotted extension", data: "version: 1\nlanguages:\n  .cxx: {alias: cpp}\n", wantMsg: `languages keys must be bare extensions like "cxx"`},
		{name: "missing alias", data: "version: 1\nlanguages:\n  cxx: {}\n", wantMsg: "missing required field languages.cxx.alias"},
		{name: "unknown language field", data: "version: 1\nlanguages:\n  cxx: {compile: g++}\n"},
		{name: "absolute data dir", data: "version: 1\ndata_dir: /tmp/v\n", wantMsg: "data_dir must be a relative path inside the repository"},
		{name: "bad output dir", data: "version: 1\ndocs: {output_dir: ..}\n", wantMsg: "docs.output_dir must be a relative path inside the repository"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.GetCode(err) != errors.EInvalidConfig {
				t.Errorf("code = %s, want E_INVALID_CONFIG", errors.GetCode(err))
			}
			if tt.wantMsg != "" && FirstValidationError(err) != tt.wantMsg {
				t.Errorf("message = %q, want %q", FirstValidationError(err), tt.wantMsg)
			}
		})
	}
}

func TestLoad_ErrorNamesConfig(t *testing.T) {
	stub := newStubFS()
	stub.files["/repo/verilib.yml"] = []byte("version: 3\n")
	_, _, err := Load(stub, "/repo/verilib.yml")
	if got := errors.GetDetail(err, "config"); got != "/repo/verilib.yml" {
		t.Errorf("config detail = %q", got)
	}
}
