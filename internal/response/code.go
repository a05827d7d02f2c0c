package response

import (
	"fmt"
	"net/http"
)

// Code is the envelope discriminator: 0 is success, 1-7 are error categories.
// It is independent of, but correlated with, the transport status.
type Code int

const (
	CodeSuccess Code = iota
	CodeBadRequest
	CodeUnauthorized
	CodeForbidden
	CodeNotFound
	CodeInternal
	CodeConflict
	CodeUnprocessable
)

type codeInfo struct {
	status  int
	name    string
	message string
}

var codeTable = [...]codeInfo{
	CodeSuccess:       {http.StatusOK, "success", "success"},
	CodeBadRequest:    {http.StatusBadRequest, "bad_request", "bad request"},
	CodeUnauthorized:  {http.StatusUnauthorized, "unauthorized", "unauthorized"},
	CodeForbidden:     {http.StatusForbidden, "forbidden", "forbidden"},
	CodeNotFound:      {http.StatusNotFound, "not_found", "not found"},
	CodeInternal:      {http.StatusInternalServerError, "internal_error", "internal server error"},
	CodeConflict:      {http.StatusConflict, "conflict", "conflict"},
	CodeUnprocessable: {http.StatusUnprocessableEntity, "unprocessable", "unprocessable entity"},
}

// CodeForStatus maps a transport status to its envelope code.
// Every 2xx is success; statuses outside the table fall back to CodeBadRequest.
func CodeForStatus(status int) Code {
	if status >= 200 && status < 300 {
		return CodeSuccess
	}
	switch status {
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusInternalServerError:
		return CodeInternal
	case http.StatusConflict:
		return CodeConflict
	case http.StatusUnprocessableEntity:
		return CodeUnprocessable
	}
	return CodeBadRequest
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	out := make([]Code, len(codeTable))
	for i := range codeTable {
		out[i] = Code(i)
	}
	return out
}

func (c Code) Valid() bool { return c >= CodeSuccess && int(c) < len(codeTable) }

func (c Code) IsSuccess() bool { return c == CodeSuccess }

// Status returns the canonical transport status for the code (200 for success).
func (c Code) Status() int {
	if !c.Valid() {
		return http.StatusBadRequest
	}
	return codeTable[c].status
}

// DefaultMessage is the reference text for the category. Builders never use it
// as a fallback for an empty message.
func (c Code) DefaultMessage() string {
	if !c.Valid() {
		return ""
	}
	return codeTable[c].message
}

// MessageKey is the i18n key of the default message, e.g. "code.not_found".
func (c Code) MessageKey() string {
	return "code." + c.String()
}

func (c Code) String() string {
	if !c.Valid() {
		return fmt.Sprintf("code(%d)", int(c))
	}
	return codeTable[c].name
}
