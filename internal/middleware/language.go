package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/myposcore/backend/internal/i18n"
)

const HeaderAcceptLanguage = "Accept-Language"

// LanguageMiddleware picks the first supported tag of Accept-Language
// (e.g. "id" from "id-ID,en;q=0.8"); unsupported or missing falls back to en.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i18n.LangEN
		for _, part := range strings.Split(c.GetHeader(HeaderAcceptLanguage), ",") {
			tag := parseLanguageTag(part)
			if i18n.Supported(tag) {
				lang = tag
				break
			}
		}
		c.Set(string(ContextKeyLanguage), lang)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ContextKeyLanguage, lang))
		c.Next()
	}
}

// parseLanguageTag returns the primary subtag of one Accept-Language entry.
func parseLanguageTag(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ";-_"); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}
