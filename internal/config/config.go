package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	// Store selects the document store backend: "firestore" or "memory".
	Store           string
	ProjectID       string
	CredentialsFile string
	Timezone        string

	// Firestore REST access, refreshed through Google's OAuth endpoint.
	FirebaseAccessToken  string
	FirebaseRefreshToken string
	FirebaseClientID     string
	FirebaseClientSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins        []string
	TrustedProxies     []string
	RateLimitAuthRPS   float64
	RateLimitAuthBurst int

	SentryDSN string
}

// Load reads .env (if present) and the process environment. It fails when a
// required value is missing.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "production"),
		Port:                 getEnv("PORT", "8080"),
		Store:                getEnv("STORE", "firestore"),
		ProjectID:            getEnv("GOOGLE_CLOUD_PROJECT", ""),
		CredentialsFile:      getEnv("GOOGLE_APPLICATION_CREDENTIALS_FILE", ""),
		Timezone:             getEnv("APP_TIMEZONE", "America/Sao_Paulo"),
		FirebaseAccessToken:  getEnv("FIREBASE_ACCESS_TOKEN", ""),
		FirebaseRefreshToken: getEnv("FIREBASE_REFRESH_TOKEN", ""),
		FirebaseClientID:     getEnv("FIREBASE_CLIENT_ID", ""),
		FirebaseClientSecret: getEnv("FIREBASE_CLIENT_SECRET", ""),
		SMTPHost:             getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:             getEnvInt("SMTP_PORT", 465),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		MailFrom:             getEnv("MAIL_FROM", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTTTL:               getDuration("JWT_TTL", 24*time.Hour),
		CORSOrigins:          getList("CORS_ORIGINS", []string{"*"}),
		TrustedProxies:       getList("TRUSTED_PROXIES", nil),
		RateLimitAuthRPS:     getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst:   getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUsername
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.Store != "memory" && c.ProjectID == "" {
		missing = append(missing, "GOOGLE_CLOUD_PROJECT")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.SMTPUsername == "" {
		missing = append(missing, "SMTP_USERNAME")
	}
	if c.SMTPPassword == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Store != "firestore" && c.Store != "memory" {
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	return nil
}

// RESTProbeEnabled reports whether enough OAuth material is configured to talk
// to the Firestore REST API directly.
func (c *Config) RESTProbeEnabled() bool {
	return c.Store == "firestore" && c.FirebaseRefreshToken != "" && c.FirebaseClientID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
