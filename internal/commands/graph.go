package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/pathref"
	"github.com/NielsdaWheelz/verilib/internal/render"
	"github.com/NielsdaWheelz/verilib/internal/verifyinput"
)

// GraphOpts holds options for the graph command.
type GraphOpts struct {
	// Kind is one of verifyinput.Kinds().
	Kind string
	// Path is an exact path or unique suffix; empty prints every path.
	Path string
	// Input defaults to <data_dir>/input.json.
	Input string
	JSON  bool
}

// graphPathJSON is the --json output for a single path.
type graphPathJSON struct {
	Kind  verifyinput.Kind `json:"kind"`
	Path  string           `json:"path"`
	Paths []string         `json:"paths"`
}

// Graph prints one relation of the dependency graph.
func Graph(ctx context.Context, d Deps, cwd string, opts GraphOpts, stdout, stderr io.Writer) error {
	ws, err := openWorkspace(d, cwd)
	if err != nil {
		return err
	}
	return ws.track("graph", func() (map[string]any, error) {
		kind := verifyinput.Kind(opts.Kind)
		inputPath := ws.path(cwd, opts.Input, ws.store.InputPath())
		in, err := ws.store.ReadInput(inputPath)
		if err != nil {
			return nil, err
		}
		rel, err := in.Relation(kind)
		if err != nil {
			return nil, errors.Wrap(errors.EUsage,
				fmt.Sprintf("unknown relation %q (want %s)", opts.Kind, kindList()), err)
		}

		if opts.Path == "" {
			if opts.JSON {
				return nil, writeJSON(stdout, rel.Map())
			}
			return nil, render.WriteRelation(stdout, rel)
		}

		p, err := pathref.ResolveErr(opts.Path, in.Paths(), inputPath)
		if err != nil {
			return nil, err
		}
		if opts.JSON {
			return nil, writeJSON(stdout, graphPathJSON{Kind: kind, Path: p, Paths: rel.Get(p).Slice()})
		}
		return nil, render.WriteRelationPath(stdout, rel, p)
	})
}

func kindList() string {
	kinds := verifyinput.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.EInternal, "failed to encode json", err)
	}
	return nil
}
