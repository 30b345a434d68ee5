// Package config handles loading and validation of verilib.yml.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
)

// FileName is the config file looked up at the repository root.
const FileName = "verilib.yml"

// DefaultDataDir holds inputs, results, events and generated pages.
const DefaultDataDir = ".verilib"

// Config represents the parsed and validated repository configuration.
type Config struct {
	Version int `yaml:"version"`
	// IncludePaths are extra root-relative directories searched by C++
	// quoted includes.
	IncludePaths []string `yaml:"include_paths,omitempty"`
	// Languages maps a file extension (without the dot) to its handling.
	Languages map[string]LanguageConfig `yaml:"languages,omitempty"`
	// DataDir is relative to the repository root.
	DataDir string     `yaml:"data_dir,omitempty"`
	Docs    DocsConfig `yaml:"docs,omitempty"`
}

// LanguageConfig routes an extension to a builtin language.
type LanguageConfig struct {
	Alias string `yaml:"alias"`
}

// DocsConfig controls Markdown generation.
type DocsConfig struct {
	// OutputDir defaults to <data_dir>/markdown.
	OutputDir string `yaml:"output_dir,omitempty"`
}

// Default returns built-in defaults used when verilib.yml is missing.
func Default() Config {
	return Config{
		Version:   1,
		Languages: map[string]LanguageConfig{},
		DataDir:   DefaultDataDir,
		Docs:      DocsConfig{OutputDir: filepath.ToSlash(filepath.Join(DefaultDataDir, "markdown"))},
	}
}

// Path returns the full path to the config file under repoRoot.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, FileName)
}

// Load reads and validates the config at path.
// If the file is missing, returns defaults with found=false.
// If the file exists but is invalid, returns E_INVALID_CONFIG.
func Load(filesystem fs.FS, path string) (Config, bool, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), false, nil
		}
		return Config{}, false, errors.WrapWithDetails(errors.EInvalidConfig,
			"failed to read config", err, map[string]string{"config": path})
	}

	cfg, err := Parse(data)
	if err != nil {
		if ve, ok := errors.AsVerilibError(err); ok {
			details := map[string]string{"config": path}
			for k, v := range ve.Details {
				details[k] = v
			}
			return Config{}, false, errors.WrapWithDetails(ve.Code, ve.Msg, ve.Cause, details)
		}
		return Config{}, false, err
	}
	return cfg, true, nil
}

// Parse decodes config bytes strictly (unknown fields are errors), applies
// defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(errors.EInvalidConfig, "invalid yaml: "+err.Error(), err)
	}
	return Validate(applyDefaults(cfg))
}

func applyDefaults(cfg Config) Config {
	if cfg.Languages == nil {
		cfg.Languages = map[string]LanguageConfig{}
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.Docs.OutputDir == "" {
		cfg.Docs.OutputDir = filepath.ToSlash(filepath.Join(cfg.DataDir, "markdown"))
	}
	return cfg
}
