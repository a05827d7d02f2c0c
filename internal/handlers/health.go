// Package handlers holds the HTTP handlers of the reference service. Every
// handler answers through the response builders, one envelope per request.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/myposcore/backend/internal/i18n"
	"github.com/myposcore/backend/internal/middleware"
	"github.com/myposcore/backend/internal/response"
)

// Health answers {"code":0,"message":"ok","data":{"status":"ok"}}.
func Health(c *gin.Context) {
	lang := middleware.LanguageFrom(c.Request.Context())
	response.Success(c, i18n.T(lang, "ok"), gin.H{"status": "ok"})
}

// StatusCodeItem is one row of the envelope code table.
type StatusCodeItem struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// StatusCodes lists the code table with messages in the request language.
func StatusCodes(c *gin.Context) {
	lang := middleware.LanguageFrom(c.Request.Context())
	codes := response.Codes()
	items := make([]StatusCodeItem, 0, len(codes))
	for _, code := range codes {
		items = append(items, StatusCodeItem{
			Code:    int(code),
			Name:    code.String(),
			Status:  code.Status(),
			Message: i18n.T(lang, code.MessageKey()),
		})
	}
	response.Success(c, i18n.T(lang, "status_codes.listed"), items)
}
