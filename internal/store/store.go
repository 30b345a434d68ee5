// Package store provides persistence for verification inputs and results.
// Files are written atomically via temp file + rename.
package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
	"github.com/NielsdaWheelz/verilib/internal/logging"
	"github.com/NielsdaWheelz/verilib/internal/result"
	"github.com/NielsdaWheelz/verilib/internal/verifyinput"
)

// Store handles persistence of input.json and result files.
type Store struct {
	FS      fs.FS            // filesystem interface for stubbing
	DataDir string           // resolved data_dir
	Now     func() time.Time // injectable clock for deterministic tests
	Logger  *zap.Logger
}

// NewStore creates a new Store with the given dependencies.
func NewStore(filesystem fs.FS, dataDir string, now func() time.Time, logger *zap.Logger) *Store {
	return &Store{
		FS:      filesystem,
		DataDir: dataDir,
		Now:     now,
		Logger:  logging.OrNop(logger),
	}
}

// InputPath returns the default path of the resolved input.
// Format: <data_dir>/input.json
func (s *Store) InputPath() string {
	return filepath.Join(s.DataDir, "input.json")
}

// ResultsDir returns the directory holding per-shard results.
// Format: <data_dir>/results/
func (s *Store) ResultsDir() string {
	return filepath.Join(s.DataDir, "results")
}

// ResultPath returns the path for a named result inside ResultsDir.
// Format: <data_dir>/results/<name>.json
func (s *Store) ResultPath(name string) string {
	return filepath.Join(s.ResultsDir(), name+".json")
}

// EventsPath returns the path to the command event log.
// Format: <data_dir>/events.jsonl
func (s *Store) EventsPath() string {
	return filepath.Join(s.DataDir, "events.jsonl")
}

// ReadInput loads the input at path. A missing file is E_NOT_FOUND.
func (s *Store) ReadInput(path string) (*verifyinput.Input, error) {
	data, err := s.FS.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithDetails(errors.ENotFound,
				fmt.Sprintf("input not found: %s", path), err,
				map[string]string{"input": path, "hint": "run verilib resolve first"})
		}
		return nil, errors.WrapWithDetails(errors.EInvalidInput,
			fmt.Sprintf("failed to read %s", path), err,
			map[string]string{"input": path})
	}
	in, err := verifyinput.Parse(data)
	if err != nil {
		return nil, withDetail(err, "input", path)
	}
	s.Logger.Debug("input loaded", zap.String("path", path), zap.Int("files", in.Len()))
	return in, nil
}

// WriteInput writes in to path atomically.
func (s *Store) WriteInput(path string, in *verifyinput.Input) error {
	var buf bytes.Buffer
	if err := verifyinput.Encode(&buf, in); err != nil {
		return err
	}
	if err := fs.WriteFileAtomic(s.FS, path, buf.Bytes(), 0o644); err != nil {
		return errors.WrapWithDetails(errors.EPersistFailed,
			fmt.Sprintf("failed to write %s", path), err,
			map[string]string{"input": path})
	}
	s.Logger.Debug("input written", zap.String("path", path), zap.Int("files", in.Len()))
	return nil
}

// ReadResult loads the result at path. A missing file is E_RESULT_NOT_FOUND.
func (s *Store) ReadResult(path string) (result.VerifyCommandResult, error) {
	data, err := s.FS.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result.VerifyCommandResult{}, errors.WrapWithDetails(errors.EResultNotFound,
				fmt.Sprintf("result not found: %s", path), err,
				map[string]string{"result": path})
		}
		return result.VerifyCommandResult{}, errors.WrapWithDetails(errors.EInvalidResult,
			fmt.Sprintf("failed to read %s", path), err,
			map[string]string{"result": path})
	}
	res, err := result.Parse(data)
	if err != nil {
		return result.VerifyCommandResult{}, withDetail(err, "result", path)
	}
	return res, nil
}

// WriteResult writes res to path atomically.
func (s *Store) WriteResult(path string, res result.VerifyCommandResult) error {
	var buf bytes.Buffer
	if err := result.Encode(&buf, res); err != nil {
		return err
	}
	if err := fs.WriteFileAtomic(s.FS, path, buf.Bytes(), 0o644); err != nil {
		return errors.WrapWithDetails(errors.EPersistFailed,
			fmt.Sprintf("failed to write %s", path), err,
			map[string]string{"result": path})
	}
	s.Logger.Debug("result written", zap.String("path", path), zap.Int("files", len(res.Files)))
	return nil
}

// LoadResults reads every path concurrently. The returned slice is in the
// order of paths. The first failure cancels the remaining reads.
func (s *Store) LoadResults(ctx context.Context, paths []string) ([]result.VerifyCommandResult, error) {
	out := make([]result.VerifyCommandResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.ReadResult(p)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.Logger.Debug("results loaded", zap.Int("count", len(paths)))
	return out, nil
}

// withDetail returns err with key=value added to its details.
func withDetail(err error, key, value string) error {
	ve, ok := errors.AsVerilibError(err)
	if !ok {
		return err
	}
	details := map[string]string{key: value}
	for k, v := range ve.Details {
		details[k] = v
	}
	return errors.WrapWithDetails(ve.Code, ve.Msg, ve.Cause, details)
}
