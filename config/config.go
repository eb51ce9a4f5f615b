package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type AppConfig struct {
	Port      string
	DBPath    string
	StaticDir string
	LogLevel  string
	LogFormat string

	RemoteURL     string
	RemoteAPIKey  string
	RemoteTimeout time.Duration

	GeminiAPIKey string
	GeminiModel  string

	RelayEndpoint  string
	RelayAccessKey string

	AdminPassword string

	NewsAllowedDomains []string
	NewsMaxBytes       int
}

// Load reads .env if present, then the process environment.
func Load() AppConfig {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}
	dur := func(k string, def time.Duration) time.Duration {
		if d, err := time.ParseDuration(getenv(k)); err == nil && d > 0 {
			return d
		}
		return def
	}
	num := func(k string, def int) int {
		if n, err := strconv.Atoi(getenv(k)); err == nil && n > 0 {
			return n
		}
		return def
	}

	var domains []string
	for _, h := range strings.Split(getenv("NEWS_ALLOWED_DOMAINS"), ",") {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			domains = append(domains, h)
		}
	}

	return AppConfig{
		Port:               get("PORT", "8080"),
		DBPath:             get("DB_PATH", "krishi.db"),
		StaticDir:          get("STATIC_DIR", "static"),
		LogLevel:           get("LOG_LEVEL", "info"),
		LogFormat:          get("LOG_FORMAT", "json"),
		RemoteURL:          strings.TrimRight(get("REMOTE_URL", ""), "/"),
		RemoteAPIKey:       get("REMOTE_API_KEY", ""),
		RemoteTimeout:      dur("REMOTE_TIMEOUT", 10*time.Second),
		GeminiAPIKey:       get("GEMINI_API_KEY", ""),
		GeminiModel:        get("GEMINI_MODEL", "gemini-3-flash-preview"),
		RelayEndpoint:      get("RELAY_ENDPOINT", ""),
		RelayAccessKey:     get("RELAY_ACCESS_KEY", ""),
		AdminPassword:      get("ADMIN_PASSWORD", "admin123"),
		NewsAllowedDomains: domains,
		NewsMaxBytes:       num("NEWS_MAX_BYTES", 1500000),
	}
}

// Fields returns the config as log fields with secrets masked.
func (c AppConfig) Fields() []zap.Field {
	return []zap.Field{
		zap.String("port", c.Port),
		zap.String("db_path", c.DBPath),
		zap.String("static_dir", c.StaticDir),
		zap.String("remote_url", c.RemoteURL),
		zap.String("remote_api_key", mask(c.RemoteAPIKey)),
		zap.Duration("remote_timeout", c.RemoteTimeout),
		zap.String("gemini_api_key", mask(c.GeminiAPIKey)),
		zap.String("gemini_model", c.GeminiModel),
		zap.String("relay_endpoint", c.RelayEndpoint),
		zap.String("relay_access_key", mask(c.RelayAccessKey)),
		zap.Strings("news_allowed_domains", c.NewsAllowedDomains),
	}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
