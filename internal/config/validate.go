package config

import (
	"sort"
	"strings"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
)

// Validate checks a config with defaults applied and returns
// E_INVALID_CONFIG on failure. Paths are normalized in the returned config.
func Validate(cfg Config) (Config, error) {
	if cfg.Version != 1 {
		return cfg, errors.New(errors.EInvalidConfig, "version must be 1")
	}

	for i, p := range cfg.IncludePaths {
		np, err := fs.NormalizePath(p)
		if err != nil {
			return cfg, errors.WrapWithDetails(errors.EInvalidConfig,
				"include_paths entries must be relative paths inside the repository", err,
				map[string]string{"path": p})
		}
		cfg.IncludePaths[i] = np
	}

	exts := make([]string, 0, len(cfg.Languages))
	for ext := range cfg.Languages {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		if ext == "" || strings.ContainsAny(ext, "./\\ ") {
			return cfg, errors.NewWithDetails(errors.EInvalidConfig,
				"languages keys must be bare extensions like \"cxx\"",
				map[string]string{"extension": ext})
		}
		if cfg.Languages[ext].Alias == "" {
			return cfg, errors.NewWithDetails(errors.EInvalidConfig,
				"missing required field languages."+ext+".alias",
				map[string]string{"extension": ext})
		}
	}

	dataDir, err := fs.NormalizePath(cfg.DataDir)
	if err != nil {
		return cfg, errors.WrapWithDetails(errors.EInvalidConfig,
			"data_dir must be a relative path inside the repository", err,
			map[string]string{"path": cfg.DataDir})
	}
	cfg.DataDir = dataDir

	outDir, err := fs.NormalizePath(cfg.Docs.OutputDir)
	if err != nil {
		return cfg, errors.WrapWithDetails(errors.EInvalidConfig,
			"docs.output_dir must be a relative path inside the repository", err,
			map[string]string{"path": cfg.Docs.OutputDir})
	}
	cfg.Docs.OutputDir = outDir

	return cfg, nil
}

// FirstValidationError extracts a stable, human-readable error message from an error.
// If the error is a VerilibError, returns the message portion.
// Otherwise returns the error's Error() string.
func FirstValidationError(err error) string {
	if err == nil {
		return ""
	}
	if ve, ok := errors.AsVerilibError(err); ok {
		return ve.Msg
	}
	return err.Error()
}
