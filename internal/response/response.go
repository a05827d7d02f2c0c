package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const ContentTypeJSON = "application/json; charset=utf-8"

// Common messages.
const (
	MsgSuccess = "success"
	MsgCreated = "created"
)

// write is the single exit point: one envelope per request, serialized once.
// Misuse (second write, empty message, unencodable data) panics; the recovery
// middleware reports it as an internal error when nothing was sent yet.
func write(c *gin.Context, status int, env Envelope) {
	if c.Writer.Written() {
		panic(fmt.Errorf("response: %w (status %d)", ErrAlreadyWritten, c.Writer.Status()))
	}
	body, err := env.Encode()
	if err != nil {
		panic(fmt.Errorf("response: %w", err))
	}
	c.Data(status, ContentTypeJSON, body)
}

// Success sends code 0 with data. Data must be non-nil; pass an empty
// slice for empty lists or use SuccessWithoutData.
func Success(c *gin.Context, message string, data any) {
	if data == nil {
		panic(fmt.Errorf("response: %w", ErrNilData))
	}
	write(c, http.StatusOK, mustEnvelope(CodeSuccess, message, data))
}

// Created is Success with 201.
func Created(c *gin.Context, message string, data any) {
	if data == nil {
		panic(fmt.Errorf("response: %w", ErrNilData))
	}
	write(c, http.StatusCreated, mustEnvelope(CodeSuccess, message, data))
}

// SuccessWithoutData sends code 0 and omits the data field.
func SuccessWithoutData(c *gin.Context, message string) {
	write(c, http.StatusOK, mustEnvelope(CodeSuccess, message, nil))
}

// BadRequest sends 400 with code 1.
func BadRequest(c *gin.Context, message string) { fail(c, CodeBadRequest, message) }

// Unauthorized sends 401 with code 2.
func Unauthorized(c *gin.Context, message string) { fail(c, CodeUnauthorized, message) }

// Forbidden sends 403 with code 3.
func Forbidden(c *gin.Context, message string) { fail(c, CodeForbidden, message) }

// NotFound sends 404 with code 4.
func NotFound(c *gin.Context, message string) { fail(c, CodeNotFound, message) }

// InternalError sends 500 with code 5.
func InternalError(c *gin.Context, message string) { fail(c, CodeInternal, message) }

// Conflict sends 409 with code 6.
func Conflict(c *gin.Context, message string) { fail(c, CodeConflict, message) }

// Unprocessable sends 422 with code 7.
func Unprocessable(c *gin.Context, message string) { fail(c, CodeUnprocessable, message) }

// Error sends an error envelope for an arbitrary transport status; the code is
// derived with CodeForStatus, so statuses outside the table (429, 503) get code 1.
func Error(c *gin.Context, status int, message string) {
	code := CodeForStatus(status)
	if code.IsSuccess() {
		panic(fmt.Errorf("response: Error called with success status %d", status))
	}
	write(c, status, mustEnvelope(code, message, nil))
}

// Abort stops the handler chain and sends the error envelope (for middleware).
func Abort(c *gin.Context, status int, message string) {
	c.Abort()
	Error(c, status, message)
}

func fail(c *gin.Context, code Code, message string) {
	write(c, code.Status(), mustEnvelope(code, message, nil))
}
