package config

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Google     GoogleConfig
	AI         AIConfig
	Email      EmailConfig
	Firebase   FirebaseConfig
	Cloudinary CloudinaryConfig
	Presence   PresenceConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	DashboardURL string
}

type DatabaseConfig struct {
	Driver          string // mysql | sqlite
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Seed            bool
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// OAuthConfig is the Google sign-in client (identity scopes only).
type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// GoogleConfig is the Classroom/Calendar integration client. Tokens obtained
// through it are stored encrypted with TokenEncryptionKey.
type GoogleConfig struct {
	ClientID           string
	ClientSecret       string
	RedirectURL        string
	TokenEncryptionKey string
}

type AIConfig struct {
	OpenRouterAPIKey string
	BaseURL          string
	Model            string
	Referer          string
	Title            string
	Timeout          time.Duration
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type PresenceConfig struct {
	Window       time.Duration
	PollInterval time.Duration
}

// Load reads .env (if present) and builds the configuration from defaults
// overridden by environment variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8099"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
			DashboardURL: getEnv("DASHBOARD_URL", "/dashboard"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "mysql"),
			DSN:             getEnv("DB_DSN", "classhub:classhub@tcp(localhost:3306)/classhub?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
			Seed:            getEnvBool("DB_SEED", false),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  getEnvDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
			Issuer:        "classhub",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_SIGNIN_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_SIGNIN_CLIENT_SECRET"),
			GoogleRedirectURL:  os.Getenv("GOOGLE_SIGNIN_REDIRECT_URL"),
		},
		Google: GoogleConfig{
			ClientID:           os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret:       os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:        os.Getenv("GOOGLE_REDIRECT_URI"),
			TokenEncryptionKey: os.Getenv("TOKEN_ENCRYPTION_KEY"),
		},
		AI: AIConfig{
			OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
			BaseURL:          getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:            getEnv("OPENROUTER_MODEL", "openrouter/auto"),
			Referer:          getEnv("OPENROUTER_REFERER", "https://classhub.local"),
			Title:            getEnv("OPENROUTER_TITLE", "ClassHub"),
			Timeout:          getEnvDuration("OPENROUTER_TIMEOUT", 30*time.Second),
		},
		Email: EmailConfig{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			From:         getEnv("EMAIL_FROM", "noreply@resend.dev"),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Presence: PresenceConfig{
			Window:       getEnvDuration("PRESENCE_WINDOW", 120*time.Second),
			PollInterval: getEnvDuration("PRESENCE_POLL_INTERVAL", 30*time.Second),
		},
	}
}

// Validate checks that required settings are present and well-formed.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DB_DSN cannot be empty")
	}
	if c.Presence.Window <= 0 || c.Presence.PollInterval <= 0 {
		return errors.New("presence window and poll interval must be positive")
	}
	if c.Google.TokenEncryptionKey != "" {
		if _, err := ParseEncryptionKey(c.Google.TokenEncryptionKey); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Server.Env == "production" }

// ParseEncryptionKey accepts a 32-byte key as 64 hex characters or base64.
func ParseEncryptionKey(raw string) ([]byte, error) {
	if raw == "" {
		return nil, errors.New("missing TOKEN_ENCRYPTION_KEY")
	}
	if len(raw) == 64 {
		if key, err := hex.DecodeString(raw); err == nil {
			return key, nil
		}
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(key) != 32 {
		return nil, errors.New("TOKEN_ENCRYPTION_KEY must be 32 bytes (hex or base64)")
	}
	return key, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
