// Package commands implements verilib CLI commands.
package commands

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NielsdaWheelz/verilib/internal/config"
	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/events"
	"github.com/NielsdaWheelz/verilib/internal/fs"
	"github.com/NielsdaWheelz/verilib/internal/logging"
	"github.com/NielsdaWheelz/verilib/internal/store"
)

// Deps holds what every command needs from its caller.
type Deps struct {
	FS     fs.FS
	Logger *zap.Logger
	Now    func() time.Time
	// ConfigPath overrides <cwd>/verilib.yml. The repository root is the
	// directory holding the config.
	ConfigPath string
	// Args are the raw command arguments, recorded in the event log.
	Args []string
}

// workspace is the repository a command operates on.
type workspace struct {
	root         string
	cfg          config.Config
	store        *store.Store
	logger       *zap.Logger
	now          func() time.Time
	invocationID string
	args         []string
}

func openWorkspace(d Deps, cwd string) (*workspace, error) {
	logger := logging.OrNop(d.Logger)
	now := d.Now
	if now == nil {
		now = time.Now
	}

	cfgPath := d.ConfigPath
	if cfgPath == "" {
		cfgPath = config.Path(cwd)
	} else if !filepath.IsAbs(cfgPath) {
		cfgPath = filepath.Join(cwd, cfgPath)
	}
	root := filepath.Dir(cfgPath)

	cfg, found, err := config.Load(d.FS, cfgPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", zap.String("path", cfgPath), zap.Bool("found", found))

	dataDir := filepath.Join(root, filepath.FromSlash(cfg.DataDir))
	return &workspace{
		root:         root,
		cfg:          cfg,
		store:        store.NewStore(d.FS, dataDir, now, logger),
		logger:       logger,
		now:          now,
		invocationID: uuid.NewString(),
		args:         d.Args,
	}, nil
}

// path resolves a user-supplied path against the working directory, or
// returns def when p is empty.
func (w *workspace) path(cwd, p, def string) string {
	if p == "" {
		return def
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cwd, p)
}

// track brackets fn with cmd_start and cmd_end events. fn may return extra
// cmd_end fields. Event log failures are logged and otherwise ignored.
func (w *workspace) track(cmd string, fn func() (map[string]any, error)) error {
	eventsPath := w.store.EventsPath()
	start := w.now()
	if err := events.AppendEvent(eventsPath, events.New(start, w.invocationID, "cmd_start", events.CmdStartData(cmd, w.args))); err != nil {
		w.logger.Debug("event log unavailable", zap.String("path", eventsPath), zap.Error(err))
	}

	extra, err := fn()

	end := w.now()
	data := events.CmdEndData(cmd, errors.ExitCode(err), end.Sub(start).Milliseconds(), string(errors.GetCode(err)))
	if err := events.AppendEvent(eventsPath, events.New(end, w.invocationID, "cmd_end", events.With(data, extra))); err != nil {
		w.logger.Debug("event log unavailable", zap.String("path", eventsPath), zap.Error(err))
	}
	return err
}
