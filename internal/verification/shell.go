package verification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ShellCommand is a command line to run. In JSON it may be written as a
// single string (run through the shell), an argv array, or an object with
// command, env and cwd.
type ShellCommand struct {
	// Line is set when the command was given as one string.
	Line string
	// Args is set when the command was given as an argv array.
	Args []string
	Env  map[string]string
	Cwd  string
}

// IsZero reports whether no command was given.
func (c ShellCommand) IsZero() bool {
	return c.Line == "" && len(c.Args) == 0
}

// String renders the command for display.
func (c ShellCommand) String() string {
	if c.Line != "" {
		return c.Line
	}
	return strings.Join(c.Args, " ")
}

type shellCommandObject struct {
	Command json.RawMessage   `json:"command"`
	Env     map[string]string `json:"env,omitempty"`
	Cwd     string            `json:"cwd,omitempty"`
}

// MarshalJSON emits the shortest form that preserves the command.
func (c ShellCommand) MarshalJSON() ([]byte, error) {
	var cmd any = c.Line
	if c.Line == "" {
		cmd = c.Args
	}
	if len(c.Env) == 0 && c.Cwd == "" {
		return json.Marshal(cmd)
	}
	raw, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}
	return json.Marshal(shellCommandObject{Command: raw, Env: c.Env, Cwd: c.Cwd})
}

// UnmarshalJSON accepts a string, a string array, or an object.
func (c *ShellCommand) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty command")
	}
	switch data[0] {
	case '"', '[':
		line, args, err := decodeCommand(data)
		if err != nil {
			return err
		}
		*c = ShellCommand{Line: line, Args: args}
		return nil
	case '{':
		var obj shellCommandObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if len(obj.Command) == 0 {
			return fmt.Errorf("command object missing \"command\"")
		}
		line, args, err := decodeCommand(obj.Command)
		if err != nil {
			return err
		}
		*c = ShellCommand{Line: line, Args: args, Env: obj.Env, Cwd: obj.Cwd}
		return nil
	default:
		return fmt.Errorf("command must be a string, array, or object")
	}
}

func decodeCommand(data []byte) (string, []string, error) {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		if strings.TrimSpace(line) == "" {
			return "", nil, fmt.Errorf("command is empty")
		}
		return line, nil, nil
	}
	var args []string
	if err := json.Unmarshal(data, &args); err != nil {
		return "", nil, fmt.Errorf("command must be a string or string array")
	}
	if len(args) == 0 {
		return "", nil, fmt.Errorf("command is empty")
	}
	return "", args, nil
}
