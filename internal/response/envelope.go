// Package response provides the unified API envelope: code, message and optional data.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrEmptyMessage   = errors.New("message must not be empty")
	ErrNilData        = errors.New("success data must not be nil")
	ErrUnexpectedData = errors.New("error envelope must not carry data")
	ErrUnknownCode    = errors.New("unknown envelope code")
	ErrEncode         = errors.New("envelope is not serializable")
	ErrAlreadyWritten = errors.New("response already written")
)

// Envelope is the body of every API response.
type Envelope struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewEnvelope builds an envelope and checks it against the code table.
// Success envelopes may omit data (nil) but never carry a typed nil.
func NewEnvelope(code Code, message string, data any) (Envelope, error) {
	if !code.Valid() {
		return Envelope{}, fmt.Errorf("%w: %d", ErrUnknownCode, int(code))
	}
	if strings.TrimSpace(message) == "" {
		return Envelope{}, ErrEmptyMessage
	}
	if data != nil {
		if !code.IsSuccess() {
			return Envelope{}, ErrUnexpectedData
		}
		if isNil(data) {
			return Envelope{}, ErrNilData
		}
	}
	return Envelope{Code: code, Message: message, Data: data}, nil
}

func mustEnvelope(code Code, message string, data any) Envelope {
	env, err := NewEnvelope(code, message, data)
	if err != nil {
		panic(fmt.Errorf("response: %w", err))
	}
	return env
}

// Encode serializes the envelope. Field order is fixed, so equal envelopes
// always encode to identical bytes.
func (e Envelope) Encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return b, nil
}

// HasData reports whether the envelope serializes a data field.
func (e Envelope) HasData() bool { return e.Data != nil }

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
