package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrNotObject      = errors.New("body is not a JSON object")
	ErrMissingCode    = errors.New("code is missing or not an integer")
	ErrMissingMessage = errors.New("message is missing or not a string")
	ErrNullData       = errors.New("success data must not be null")
	ErrCodeMismatch   = errors.New("code does not match transport status")
)

var jsonNull = []byte("null")

// Decode parses a serialized envelope. Data is kept as raw JSON so that
// re-encoding reproduces it unchanged. The returned error joins every
// structural violation found; the envelope is still filled as far as possible.
func Decode(body []byte) (Envelope, error) {
	env, _, errs := decode(body)
	return env, errors.Join(errs...)
}

// Validate checks a recorded body against the code table for the given
// transport status. All violations are joined; use errors.Is to inspect them.
func Validate(status int, body []byte) error {
	env, codeOK, errs := decode(body)
	if codeOK {
		if want := CodeForStatus(status); env.Code != want {
			errs = append(errs, fmt.Errorf("%w: status %d expects code %d, got %d", ErrCodeMismatch, status, int(want), int(env.Code)))
		}
	}
	return errors.Join(errs...)
}

// Problems flattens a Validate/Decode error into readable lines.
func Problems(err error) []string {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		out := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func decode(body []byte) (env Envelope, codeOK bool, errs []error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return env, false, []error{ErrNotObject}
	}

	if raw, ok := fields["code"]; ok && !isJSONNull(raw) {
		// integral floats such as 1.0 count as integers
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil || n != math.Trunc(n) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingCode, raw))
		} else if n < 0 || n >= float64(len(codeTable)) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownCode, raw))
		} else {
			env.Code = Code(n)
			codeOK = true
		}
	} else {
		errs = append(errs, ErrMissingCode)
	}

	if raw, ok := fields["message"]; ok && !isJSONNull(raw) {
		if err := json.Unmarshal(raw, &env.Message); err != nil {
			errs = append(errs, ErrMissingMessage)
		} else if strings.TrimSpace(env.Message) == "" {
			errs = append(errs, ErrEmptyMessage)
		}
	} else {
		errs = append(errs, ErrMissingMessage)
	}

	raw, hasData := fields["data"]
	if hasData {
		env.Data = json.RawMessage(append([]byte(nil), raw...))
	}
	if codeOK {
		switch {
		case env.Code.IsSuccess() && hasData && isJSONNull(raw):
			errs = append(errs, ErrNullData)
		case !env.Code.IsSuccess() && hasData:
			errs = append(errs, ErrUnexpectedData)
		}
	}
	return env, codeOK, errs
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}
