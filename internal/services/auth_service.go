package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/config"
)

// ErrInvalidToken is returned for any token the verifier does not accept.
var ErrInvalidToken = errors.New("Token is invalid")

// User is the operator a request token belongs to.
type User struct {
	ID   string
	Code string
	Name string
}

// TokenVerifier resolves a request's Authorization value to a user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (User, error)
}

// NewTokenVerifier builds the verifier for the configured auth mode. Mode
// "none" returns a nil verifier.
func NewTokenVerifier(cfg config.AuthConfig) (TokenVerifier, error) {
	switch cfg.Mode {
	case config.AuthRemote:
		return NewTokenCheckClient(cfg.TokenCheckURL, cfg.Timeout), nil
	case config.AuthJWT:
		v, err := NewJWTVerifier(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		return v, nil
	case config.AuthNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
}

// TokenCheckClient asks the user service whether a token is valid.
type TokenCheckClient struct {
	URL    string
	Client *http.Client
}

func NewTokenCheckClient(url string, timeout time.Duration) *TokenCheckClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TokenCheckClient{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

type tokenCheckResponse struct {
	ID       json.RawMessage `json:"_id"`
	UserCode string          `json:"user_code"`
	UserName string          `json:"user_name"`
}

// Verify forwards token unchanged in the Authorization header. Any status
// other than 200 means the token is invalid.
func (c *TokenCheckClient) Verify(ctx context.Context, token string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, nil)
	if err != nil {
		return User{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return User{}, fmt.Errorf("%w: token check returned %d", ErrInvalidToken, resp.StatusCode)
	}

	var res tokenCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return User{}, fmt.Errorf("%w: failed to decode token check response: %v", ErrInvalidToken, err)
	}
	return User{ID: rawID(res.ID), Code: res.UserCode, Name: res.UserName}, nil
}

// rawID flattens the user id, which the user service may send as a string,
// a number or an {"$oid": "..."} object.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &oid); err == nil && oid.OID != "" {
		return oid.OID
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.Trim(string(raw), `"`)
}

// JWTVerifier checks HS256 tokens signed with a shared secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (User, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return User{}, ErrInvalidToken
	}

	user := User{
		ID:   claimString(claims, "uid"),
		Code: claimString(claims, "user_code"),
		Name: claimString(claims, "user"),
	}
	if user.ID == "" {
		user.ID, _ = claims.GetSubject()
	}
	if user.ID == "" {
		return User{}, fmt.Errorf("%w: no user id claim", ErrInvalidToken)
	}
	return user, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
