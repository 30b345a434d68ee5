package verifyinput

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/NielsdaWheelz/verilib/internal/errors"
)

// Decode reads an Input in the form
//
//	{"files": {"<path>": {"dependencies": [...], "verification": [...], "document_attributes": {...}}}}
//
// The files object is read token by token so a path repeated within it is
// seen by Builder.Add instead of being silently overwritten.
func Decode(r io.Reader) (*Input, error) {
	dec := json.NewDecoder(r)
	b := NewBuilder()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	sawFiles := false
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if key != "files" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, invalidInput("malformed value for "+key, err)
			}
			continue
		}
		if sawFiles {
			return nil, errors.New(errors.EInvalidInput, `"files" given more than once`)
		}
		sawFiles = true
		if err := decodeFiles(dec, b); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if !sawFiles {
		return nil, errors.New(errors.EInvalidInput, `input is missing "files"`)
	}
	return b.Build(), nil
}

// Parse is Decode over a byte slice.
func Parse(data []byte) (*Input, error) {
	return Decode(bytes.NewReader(data))
}

func decodeFiles(dec *json.Decoder, b *Builder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		p, err := readKey(dec)
		if err != nil {
			return err
		}
		var f File
		if err := dec.Decode(&f); err != nil {
			if ve, ok := errors.AsVerilibError(err); ok {
				details := map[string]string{"path": p}
				for k, v := range ve.Details {
					details[k] = v
				}
				return errors.WrapWithDetails(ve.Code, fmt.Sprintf("file %s: %s", p, ve.Msg), err, details)
			}
			return errors.WrapWithDetails(errors.EInvalidInput,
				fmt.Sprintf("file %s is malformed", p), err,
				map[string]string{"path": p})
		}
		f.Path = p
		if err := b.Add(f); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", invalidInput("malformed input", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", errors.New(errors.EInvalidInput, fmt.Sprintf("expected object key, got %v", tok))
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return invalidInput("malformed input", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.New(errors.EInvalidInput, fmt.Sprintf("expected %q, got %v", want, tok))
	}
	return nil
}

func invalidInput(msg string, err error) error {
	return errors.Wrap(errors.EInvalidInput, msg, err)
}

type inputJSON struct {
	Files map[string]File `json:"files"`
}

// MarshalJSON writes the declared files. Undeclared dependency targets are
// implied by the edges and not written.
func (in *Input) MarshalJSON() ([]byte, error) {
	return json.Marshal(inputJSON{Files: in.files})
}

// Encode writes the Input as indented JSON.
func Encode(w io.Writer, in *Input) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(in)
}
