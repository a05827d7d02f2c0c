// Context keys and getters for values set by the middleware chain.
package middleware

import "context"

type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyLanguage  contextKey = "language"
	ContextKeySubject   contextKey = "subject" // set by AuthMiddleware
	ContextKeyRole      contextKey = "role"    // set by AuthMiddleware
)

// RequestIDFrom returns the X-Request-ID of the request.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// LanguageFrom returns the negotiated language; "en" by default.
func LanguageFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyLanguage).(string); ok {
		return v
	}
	return "en"
}

// SubjectFrom returns the token subject after AuthMiddleware.
func SubjectFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeySubject).(string); ok {
		return v
	}
	return ""
}

// RoleFrom returns the token role after AuthMiddleware.
func RoleFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRole).(string); ok {
		return v
	}
	return ""
}
