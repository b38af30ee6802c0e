package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs. It is built once in main and
// passed down; nothing reads the environment after startup.
type Config struct {
	DatabaseURL string
	SQLitePath  string
	JWTSecret   string
	GRPCPort    string
	WebPort     string

	AdminEmail string

	AWSRegion string
	SESFrom   string
	SESTo     string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	DigestSchedule string

	RateLimitRPS   float64
	RateLimitBurst int

	AllowedOrigins []string
	// SecureCookies marks session cookies Secure; on behind TLS.
	SecureCookies bool
}

var ErrNoSecret = errors.New("JWT_SECRET is required")

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       env("SQLITE_PATH", "rodeo.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		GRPCPort:         env("PORT", "50051"),
		WebPort:          env("WEB_PORT", "8080"),
		AdminEmail:       env("ADMIN_EMAIL", "mastaisshakh@gmail.com"),
		AWSRegion:        env("AWS_REGION", "us-east-1"),
		SESFrom:          env("SES_FROM", "no-reply@rodeodrive.qa"),
		SESTo:            os.Getenv("SES_TO"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       os.Getenv("TWILIO_FROM"),
		DigestSchedule:   env("DIGEST_SCHEDULE", "0 8 * * *"),
		RateLimitRPS:     floatEnv("RATE_LIMIT_RPS", 5),
		RateLimitBurst:   intEnv("RATE_LIMIT_BURST", 10),
		AllowedOrigins:   listEnv("ALLOWED_ORIGINS"),
		SecureCookies:    boolEnv("COOKIE_SECURE", false),
	}
	// booking mails go to the shop inbox, which defaults to the admin
	if cfg.SESTo == "" {
		cfg.SESTo = cfg.AdminEmail
	}
	if cfg.JWTSecret == "" {
		return nil, ErrNoSecret
	}
	return cfg, nil
}

// TwilioEnabled reports whether customer confirmations can be sent.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFrom != ""
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: unable to parse %s=%q as int: %v", key, v, err)
		return def
	}
	return n
}

func floatEnv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: unable to parse %s=%q as float: %v", key, v, err)
		return def
	}
	return f
}

func boolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: unable to parse %s=%q as bool: %v", key, v, err)
		return def
	}
	return b
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
