// Package events provides the command event log for verilib.
// Events are stored in an append-only JSONL file under the data dir.
package events

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// SchemaVersion is written into every event.
const SchemaVersion = "1.0"

// Event represents a single line in events.jsonl.
// This is the public contract for the events file format.
type Event struct {
	SchemaVersion string         `json:"schema_version"`
	Timestamp     string         `json:"timestamp"` // RFC3339
	InvocationID  string         `json:"invocation_id"`
	Event         string         `json:"event"` // "cmd_start", "cmd_end"
	Data          map[string]any `json:"data,omitempty"`
}

// New returns an event stamped with now.
func New(now time.Time, invocationID, name string, data map[string]any) Event {
	return Event{
		SchemaVersion: SchemaVersion,
		Timestamp:     now.UTC().Format(time.RFC3339),
		InvocationID:  invocationID,
		Event:         name,
		Data:          data,
	}
}

// AppendEvent appends a single event to the events.jsonl file.
// The file is created lazily if it doesn't exist.
//
// Best-effort: errors are returned but callers should typically ignore them
// and continue with the main operation.
func AppendEvent(path string, e Event) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.Write(data)
	return err
}

// CmdStartData returns the data map for a cmd_start event.
func CmdStartData(cmd string, args []string) map[string]any {
	if args == nil {
		args = []string{}
	}
	return map[string]any{
		"cmd":  cmd,
		"args": args,
	}
}

// CmdEndData returns the data map for a cmd_end event.
// errorCode is "" or an E_* string.
func CmdEndData(cmd string, exitCode int, durationMs int64, errorCode string) map[string]any {
	data := map[string]any{
		"cmd":         cmd,
		"exit_code":   exitCode,
		"duration_ms": durationMs,
	}
	if errorCode != "" {
		data["error_code"] = errorCode
	}
	return data
}

// MergeData returns extra cmd_end fields for merge-result.
func MergeData(inputs, files int) map[string]any {
	return map[string]any{
		"inputs": inputs,
		"files":  files,
	}
}

// CheckData returns extra cmd_end fields for check.
func CheckData(complete bool, failing, missing int) map[string]any {
	return map[string]any{
		"complete": complete,
		"failing":  failing,
		"missing":  missing,
	}
}

// With returns a copy of base with extra merged in.
func With(base map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
