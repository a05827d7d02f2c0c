package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/myposcore/backend/internal/response"
)

// ValidateEnvelopeRequest is the body of POST /envelopes/validate. Body is the
// response to check: either the JSON itself or a string holding it, the way
// Postman stores example bodies.
type ValidateEnvelopeRequest struct {
	Status *int            `json:"status" binding:"required"`
	Body   json.RawMessage `json:"body" binding:"required"`
}

// ValidateEnvelopeResult reports the problems found; empty when valid.
type ValidateEnvelopeResult struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems"`
}

// ValidateEnvelope checks a status/body pair against the envelope contract.
func ValidateEnvelope(c *gin.Context) {
	var req ValidateEnvelopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload: status and body are required")
		return
	}
	if *req.Status < 100 || *req.Status > 599 {
		response.Unprocessable(c, "status must be between 100 and 599")
		return
	}

	body := []byte(req.Body)
	var s string
	if json.Unmarshal(req.Body, &s) == nil {
		body = []byte(strings.TrimSpace(s))
	}

	result := ValidateEnvelopeResult{Valid: true, Problems: []string{}}
	if err := response.Validate(*req.Status, body); err != nil {
		result.Valid = false
		result.Problems = response.Problems(err)
	}
	response.Success(c, response.MsgSuccess, result)
}

// readBody reads at most limit bytes of the request body. It answers the
// request itself and returns false when the body is missing or too large.
func readBody(c *gin.Context, limit int64) ([]byte, bool) {
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	b, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		response.BadRequest(c, "cannot read request body")
		return nil, false
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		response.BadRequest(c, "request body is empty")
		return nil, false
	}
	return b, true
}
