package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	App    AppConfig
	Server ServerConfig
	DB     DatabaseConfig
	Auth   AuthConfig
	Banks  BanksConfig
	Store  StoreConfig
	Digest DigestConfig
	SMTP   SMTPConfig
}

// AppConfig holds logging settings.
type AppConfig struct {
	Env      string
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig holds HTTP listener settings. TLS is used when both files are set.
type ServerConfig struct {
	Port           string
	CertFile       string        `mapstructure:"cert_file"`
	KeyFile        string        `mapstructure:"key_file"`
	MaxUploadMB    int64         `mapstructure:"max_upload_mb"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig holds MySQL settings.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	MaxOpenConns int  `mapstructure:"max_open_conns"`
	Migrate      bool `mapstructure:"migrate"`
}

// AuthConfig selects how request tokens are verified.
type AuthConfig struct {
	Mode          string // remote, jwt or none
	TokenCheckURL string `mapstructure:"token_check_url"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	Timeout       time.Duration
}

// BanksConfig points at an optional bank profile override file.
type BanksConfig struct {
	Profiles string
}

// StoreConfig tunes the statement store.
type StoreConfig struct {
	LockWait  time.Duration `mapstructure:"lock_wait"`
	ChunkSize int           `mapstructure:"chunk_size"`
}

// DigestConfig schedules the upload digest. An empty To only logs it.
type DigestConfig struct {
	Schedule string
	To       string
}

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host  string
	Port  int
	Email string
	Pass  string
}

// Auth modes.
const (
	AuthRemote = "remote"
	AuthJWT    = "jwt"
	AuthNone   = "none"
)

// explicit env names kept from the earlier deployment
var envAliases = map[string]string{
	"app.log_level":    "LOG_LEVEL",
	"server.cert_file": "CERT_FILE",
	"server.key_file":  "KEY_FILE",
	"auth.jwt_secret":  "JWT_SECRET",
}

// Load reads configuration from defaults, an optional TOML file named by
// STATEMENTS_CONFIG (or ./statements.toml) and the environment. Nested keys
// map to upper-case env names with "." replaced by "_", e.g. db.host is
// DB_HOST.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.port", ":5000")
	v.SetDefault("server.cert_file", "")
	v.SetDefault("server.key_file", "")
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.request_timeout", "2m")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", "3306")
	v.SetDefault("db.user", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "bank_statements")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.migrate", true)
	v.SetDefault("auth.mode", AuthNone)
	v.SetDefault("auth.token_check_url", "http://127.0.0.1:5001/token_check")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.timeout", "5s")
	v.SetDefault("banks.profiles", "")
	v.SetDefault("store.lock_wait", "30s")
	v.SetDefault("store.chunk_size", 500)
	v.SetDefault("digest.schedule", "0 0 * * *")
	v.SetDefault("digest.to", "")
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.email", "")
	v.SetDefault("smtp.pass", "")

	v.SetConfigType("toml")
	cfgPath := os.Getenv("STATEMENTS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("statements")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envAliases {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Auth.Mode = strings.ToLower(c.Auth.Mode)
	return c, c.Validate()
}

// Validate checks settings that have no usable fallback.
func (c Config) Validate() error {
	switch c.Auth.Mode {
	case AuthRemote:
		if c.Auth.TokenCheckURL == "" {
			return errors.New("auth.token_check_url is required in remote auth mode")
		}
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET is required in jwt auth mode")
		}
	case AuthNone:
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New("server.max_upload_mb must be positive")
	}
	return nil
}

// TLS reports whether both certificate and key are configured.
func (s ServerConfig) TLS() bool {
	return s.CertFile != "" && s.KeyFile != ""
}
