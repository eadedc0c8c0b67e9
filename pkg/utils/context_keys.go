package utils

import "context"

type ContextKey string

const (
	RequestIDKey ContextKey = "requestId"
	UserIDKey    ContextKey = "userId"
	UserCodeKey  ContextKey = "userCode"
	UserNameKey  ContextKey = "userName"
)

// StringFromContext returns the string stored under key, or "".
func StringFromContext(ctx context.Context, key ContextKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}
