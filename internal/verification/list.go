package verification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/NielsdaWheelz/verilib/internal/errors"
	"github.com/NielsdaWheelz/verilib/internal/status"
)

// List is the ordered verification sequence attached to a file.
// An empty List means the file is only verified through its dependents.
type List []Verification

type envelope struct {
	Type Type `json:"type"`
}

// MarshalJSON writes each entry with its "type" discriminator first.
func (l List) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := Encode(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes each entry by its "type".
func (l *List) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return errors.Wrap(errors.EInvalidVerification, "verification must be an array", err)
	}
	out := make(List, 0, len(raws))
	for i, raw := range raws {
		v, err := Decode(raw)
		if err != nil {
			if ve, ok := errors.AsVerilibError(err); ok {
				details := map[string]string{"offset": fmt.Sprintf("%d", i)}
				for k, val := range ve.Details {
					details[k] = val
				}
				return errors.WrapWithDetails(ve.Code, fmt.Sprintf("verification[%d]: %s", i, ve.Msg), ve.Cause, details)
			}
			return err
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

// Encode serializes one verification with its type discriminator.
func Encode(v Verification) ([]byte, error) {
	if v == nil {
		return nil, errors.New(errors.EInvalidVerification, "nil verification")
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.EInvalidVerification, "failed to encode verification", err)
	}
	// body is a JSON object; splice the discriminator in front of its fields.
	prefix := fmt.Sprintf(`{"type":%q`, string(v.Type()))
	if len(body) == 2 {
		return []byte(prefix + "}"), nil
	}
	return append([]byte(prefix+","), body[1:]...), nil
}

// Decode parses one verification, dispatching on its "type" field.
func Decode(raw []byte) (Verification, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(errors.EInvalidVerification, "verification must be an object", err)
	}
	switch env.Type {
	case TypeConst:
		var v Const
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrap(errors.EInvalidVerification, "invalid const verification", err)
		}
		if err := Validate(v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeCommand:
		var v Command
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrap(errors.EInvalidVerification, "invalid command verification", err)
		}
		if err := Validate(v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeProblem:
		var v Problem
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrap(errors.EInvalidVerification, "invalid problem verification", err)
		}
		if err := Validate(v); err != nil {
			return nil, err
		}
		return v, nil
	case "":
		return nil, errors.New(errors.EInvalidVerification, "verification missing type")
	default:
		return nil, errors.NewWithDetails(errors.EInvalidVerification,
			fmt.Sprintf("unknown verification type %q", string(env.Type)),
			map[string]string{"hint": "type must be const, command or problem"})
	}
}

// Validate checks the required fields of v.
func Validate(v Verification) error {
	switch v := v.(type) {
	case Const:
		if !v.Status.IsValid() {
			return errors.New(errors.EInvalidVerification, "const verification missing status")
		}
	case Command:
		if v.Command.IsZero() {
			return errors.New(errors.EInvalidVerification, "command verification missing command")
		}
	case Problem:
		return validateProblem(v)
	case nil:
		return errors.New(errors.EInvalidVerification, "nil verification")
	}
	return nil
}

func validateProblem(p Problem) error {
	if p.Problem == "" {
		return errors.New(errors.EInvalidVerification, "problem verification missing problem url")
	}
	u, err := url.Parse(p.Problem)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.EInvalidVerification, fmt.Sprintf("problem url %q is not absolute", p.Problem))
	}
	limits := []struct {
		name string
		v    *float64
	}{{"error", p.Error}, {"tle", p.TLE}, {"mle", p.MLE}}
	for _, l := range limits {
		if l.v != nil && *l.v < 0 {
			return errors.New(errors.EInvalidVerification, fmt.Sprintf("problem verification %s must be non-negative", l.name))
		}
	}
	return nil
}

// Skipped returns the const verification used for ignored files.
func Skipped() Const {
	return Const{Status: status.Skipped}
}
