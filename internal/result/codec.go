package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/fs"
)

// Decode reads one report. File paths are normalized. The files object is
// read token by token, so a path given twice (literally or after
// normalization) is rejected instead of overwriting the earlier entry.
func Decode(r io.Reader) (VerifyCommandResult, error) {
	dec := json.NewDecoder(r)
	res := VerifyCommandResult{Runs: []RunInfo{}}

	if err := expectDelim(dec, '{'); err != nil {
		return VerifyCommandResult{}, err
	}
	sawRuns := false
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return VerifyCommandResult{}, err
		}
		switch key {
		case "files":
			if res.Files != nil {
				return VerifyCommandResult{}, errors.New(errors.EInvalidResult, `"files" given more than once`)
			}
			files, err := decodeFiles(dec)
			if err != nil {
				return VerifyCommandResult{}, err
			}
			res.Files = files
		case "runs":
			if sawRuns {
				return VerifyCommandResult{}, errors.New(errors.EInvalidResult, `"runs" given more than once`)
			}
			sawRuns = true
			var runs []RunInfo
			if err := dec.Decode(&runs); err != nil {
				return VerifyCommandResult{}, errors.Wrap(errors.EInvalidResult, "malformed runs", err)
			}
			for i, run := range runs {
				if run.ID == "" {
					return VerifyCommandResult{}, errors.New(errors.EInvalidResult, fmt.Sprintf("run %d has no id", i))
				}
			}
			res.Runs = foldRuns(runs)
		default:
			// total_seconds is derived from runs.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return VerifyCommandResult{}, errors.Wrap(errors.EInvalidResult, "malformed value for "+key, err)
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return VerifyCommandResult{}, err
	}
	if dec.More() {
		return VerifyCommandResult{}, errors.New(errors.EInvalidResult, "trailing data after result json")
	}
	if res.Files == nil {
		return VerifyCommandResult{}, errors.New(errors.EInvalidResult, `report is missing "files"`)
	}
	return res, nil
}

func decodeFiles(dec *json.Decoder) (map[string]FileResult, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	files := map[string]FileResult{}
	given := map[string]string{}
	for dec.More() {
		p, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		np, err := fs.NormalizePath(p)
		if err != nil {
			return nil, errors.WrapWithDetails(errors.EInvalidResult,
				fmt.Sprintf("invalid file path %q in result", p), err,
				map[string]string{"path": p})
		}
		if prev, dup := given[np]; dup {
			return nil, errors.NewWithDetails(errors.EInvalidResult,
				fmt.Sprintf("file %s appears twice in result", np),
				map[string]string{"path": np, "other_path": prev})
		}
		var f FileResult
		if err := dec.Decode(&f); err != nil {
			return nil, errors.WrapWithDetails(errors.EInvalidResult,
				fmt.Sprintf("file %s is malformed", np), err,
				map[string]string{"path": np})
		}
		given[np] = p
		files[np] = f
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return files, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", errors.Wrap(errors.EInvalidResult, "invalid result json", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", errors.New(errors.EInvalidResult, fmt.Sprintf("expected object key, got %v", tok))
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(errors.EInvalidResult, "invalid result json", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.New(errors.EInvalidResult, fmt.Sprintf("expected %q, got %v", want, tok))
	}
	return nil
}

// Parse is Decode over a byte slice.
func Parse(data []byte) (VerifyCommandResult, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes res as indented JSON. Map keys are sorted, so equal reports
// produce identical bytes.
func Encode(w io.Writer, res VerifyCommandResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return errors.Wrap(errors.EInvalidResult, "failed to encode result", err)
	}
	return nil
}
