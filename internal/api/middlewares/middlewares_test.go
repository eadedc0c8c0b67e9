package middlewares

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/services"
	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/utils"
)

type stubVerifier struct {
	tokens map[string]services.User
	calls  int
}

func (s *stubVerifier) Verify(_ context.Context, token string) (services.User, error) {
	s.calls++
	if u, ok := s.tokens[token]; ok {
		return u, nil
	}
	return services.User{}, services.ErrInvalidToken
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(utils.StringFromContext(r.Context(), utils.UserIDKey) + "|" +
		utils.StringFromContext(r.Context(), utils.UserCodeKey)))
}

func TestAuthMiddleware(t *testing.T) {
	v := &stubVerifier{tokens: map[string]services.User{
		"Bearer good": {ID: "65f1", Code: "ADM001", Name: "Asha"},
	}}
	h := AuthMiddleware(v)(http.HandlerFunc(echoUser))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized, `{"error":"Token is missing"}`},
		{"invalid", func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") }, http.StatusUnauthorized, `{"error":"Token is invalid"}`},
		{"header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK, "65f1|ADM001"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "Bearer", Value: "good"}) }, http.StatusOK, "65f1|ADM001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/statement/hdfc", nil)
			tt.setup(r)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_LogsRejections(t *testing.T) {
	var buf bytes.Buffer
	out, level, formatter := utils.Logger.Out, utils.Logger.GetLevel(), utils.Logger.Formatter
	utils.Logger.SetOutput(&buf)
	utils.Logger.SetLevel(logrus.InfoLevel)
	utils.Logger.SetFormatter(&logrus.JSONFormatter{})
	t.Cleanup(func() {
		utils.Logger.SetOutput(out)
		utils.Logger.SetLevel(level)
		utils.Logger.SetFormatter(formatter)
	})

	h := AuthMiddleware(&stubVerifier{})(http.HandlerFunc(echoUser))

	for _, token := range []string{"", "Bearer bad"} {
		buf.Reset()
		r := httptest.NewRequest(http.MethodPost, "/statement/hdfc", nil)
		if token != "" {
			r.Header.Set("Authorization", token)
		}
		h.ServeHTTP(httptest.NewRecorder(), r)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "token %q: %s", token, buf.String())
		assert.Equal(t, "/statement/hdfc", entry["event_type"])
		assert.Equal(t, "warning", entry["level"])
	}
}

func TestAuthMiddleware_NilVerifier(t *testing.T) {
	h := AuthMiddleware(nil)(http.HandlerFunc(echoUser))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/statement/hdfc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewaresExcludePaths(t *testing.T) {
	v := &stubVerifier{}
	h := MiddlewaresExcludePaths(AuthMiddleware(v), "/", "/healthz", "/swagger/*")(http.HandlerFunc(echoUser))

	for _, path := range []string{"/", "/healthz", "/swagger/index.html", "/swagger/doc.json"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/extra", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "prefix match needs the trailing slash")
	assert.Zero(t, v.calls, "missing token is rejected before verification")
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.StringFromContext(r.Context(), utils.RequestIDKey)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	incoming := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", incoming)
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, incoming, seen)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "<script>")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.NotEqual(t, "<script>", seen)
}

func TestCors(t *testing.T) {
	called := false
	h := Cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	r := httptest.NewRequest(http.MethodOptions, "/statement/hdfc", nil)
	r.Header.Set("Origin", "https://admin.example.com")
	r.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "User-id")

	r = httptest.NewRequest(http.MethodPost, "/statement/hdfc", nil)
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.True(t, called)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, apiCSP, rec.Header().Get("Content-Security-Policy"))

	rec = httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'self'")
}

func TestApplyMiddlewaresOrder(t *testing.T) {
	var order []string
	tag := func(name string) utils.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := utils.ApplyMiddlewares(http.NotFoundHandler(), tag("a"), tag("b"), tag("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

