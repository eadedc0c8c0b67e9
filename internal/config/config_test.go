package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STATEMENTS_CONFIG", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":5000", c.Server.Port)
	assert.Equal(t, int64(32), c.Server.MaxUploadMB)
	assert.Equal(t, "3306", c.DB.Port)
	assert.True(t, c.DB.Migrate)
	assert.Equal(t, AuthNone, c.Auth.Mode, "upload routes are open unless auth is configured")
	assert.Equal(t, "http://127.0.0.1:5001/token_check", c.Auth.TokenCheckURL)
	assert.Equal(t, 30*time.Second, c.Store.LockWait)
	assert.Equal(t, "0 0 * * *", c.Digest.Schedule)
	assert.False(t, c.Server.TLS())
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STATEMENTS_CONFIG", "")
	t.Setenv("DB_HOST", "mysql.internal")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("SERVER_PORT", ":8443")
	t.Setenv("CERT_FILE", "cert.pem")
	t.Setenv("KEY_FILE", "key.pem")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUTH_MODE", "JWT")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_LOCK_WAIT", "5s")
	t.Setenv("SMTP_PORT", "2525")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql.internal", c.DB.Host)
	assert.False(t, c.DB.Migrate)
	assert.Equal(t, ":8443", c.Server.Port)
	assert.True(t, c.Server.TLS())
	assert.Equal(t, "debug", c.App.LogLevel)
	assert.Equal(t, AuthJWT, c.Auth.Mode)
	assert.Equal(t, "s3cret", c.Auth.JWTSecret)
	assert.Equal(t, 5*time.Second, c.Store.LockWait)
	assert.Equal(t, 2525, c.SMTP.Port)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statements.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[db]
name = "statements_test"

[auth]
mode = "none"

[digest]
to = "finance@example.com"
`), 0o600))
	t.Setenv("STATEMENTS_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "statements_test", c.DB.Name)
	assert.Equal(t, AuthNone, c.Auth.Mode)
	assert.Equal(t, "finance@example.com", c.Digest.To)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("STATEMENTS_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		Server: ServerConfig{MaxUploadMB: 1},
		Auth:   AuthConfig{Mode: AuthRemote, TokenCheckURL: "http://auth/token_check"},
	}
	require.NoError(t, base.Validate())

	jwtNoSecret := base
	jwtNoSecret.Auth = AuthConfig{Mode: AuthJWT}
	assert.Error(t, jwtNoSecret.Validate())

	unknown := base
	unknown.Auth.Mode = "basic"
	assert.ErrorContains(t, unknown.Validate(), `unknown auth mode "basic"`)

	noUpload := base
	noUpload.Server.MaxUploadMB = 0
	assert.Error(t, noUpload.Validate())
}
