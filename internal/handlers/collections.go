package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/myposcore/backend/internal/collection"
	"github.com/myposcore/backend/internal/response"
)

// CollectionHandler checks and fixes Postman collections posted as the raw body.
type CollectionHandler struct {
	maxBody int64
}

func NewCollectionHandler(maxBodyBytes int64) *CollectionHandler {
	return &CollectionHandler{maxBody: maxBodyBytes}
}

// FixResult is the fixed collection together with what was changed.
type FixResult struct {
	Collection json.RawMessage      `json:"collection"`
	Report     collection.FixReport `json:"report"`
}

// Check answers the check report of the posted collection; nothing is stored.
func (h *CollectionHandler) Check(c *gin.Context) {
	doc, ok := parseCollection(c, h.maxBody)
	if !ok {
		return
	}
	response.Success(c, response.MsgSuccess, collection.Check(doc))
}

// Fix answers the repaired collection and the fix report.
func (h *CollectionHandler) Fix(c *gin.Context) {
	doc, ok := parseCollection(c, h.maxBody)
	if !ok {
		return
	}
	rep, err := collection.Fix(doc)
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c, "cannot fix collection")
		return
	}
	response.Success(c, response.MsgSuccess, FixResult{
		Collection: json.RawMessage(doc.Bytes()),
		Report:     rep,
	})
}

// parseCollection reads the body as a collection: broken JSON is a bad
// request (code 1), JSON that is no collection is unprocessable (code 7).
func parseCollection(c *gin.Context, limit int64) (*collection.Document, bool) {
	b, ok := readBody(c, limit)
	if !ok {
		return nil, false
	}
	doc, err := collection.Parse(b)
	switch {
	case errors.Is(err, collection.ErrInvalidJSON):
		response.BadRequest(c, err.Error())
		return nil, false
	case errors.Is(err, collection.ErrNotCollection):
		response.Unprocessable(c, err.Error())
		return nil, false
	case err != nil:
		response.BadRequest(c, err.Error())
		return nil, false
	}
	return doc, true
}
