package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/services"
	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/utils"
)

// requestToken returns the Authorization header, or the Bearer cookie for
// browser clients.
func requestToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if cookie, err := r.Cookie("Bearer"); err == nil && cookie.Value != "" {
		return "Bearer " + strings.TrimPrefix(cookie.Value, "Bearer ")
	}
	return ""
}

// AuthMiddleware resolves the request token through verifier and stores the
// user in the request context. A nil verifier lets every request through.
func AuthMiddleware(verifier services.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := requestToken(r)
			if token == "" {
				utils.LogEvent(r, r.URL.Path, logrus.WarnLevel, "token missing", nil)
				utils.WriteError(w, "Token is missing", http.StatusUnauthorized)
				return
			}

			user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				utils.LogEvent(r, r.URL.Path, logrus.WarnLevel, "token rejected", logrus.Fields{"error": err.Error()})
				utils.WriteError(w, "Token is invalid", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.UserIDKey, user.ID)
			ctx = context.WithValue(ctx, utils.UserCodeKey, user.Code)
			ctx = context.WithValue(ctx, utils.UserNameKey, user.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
