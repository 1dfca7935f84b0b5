package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port               string
	DatabaseURL        string
	GooglePlacesAPIKey string
	SendGridAPIKey     string
	NotificationEmail  string
	CallMeBotAPIKey    string
	TextBeltKey        string
	OutreachWebhookURL string
	OutreachDelay      time.Duration
	RateLimitSearch    RateLimitConfig
	PhoneRegion        string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GooglePlacesAPIKey: os.Getenv("GOOGLE_PLACES_API_KEY"),
		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		NotificationEmail:  os.Getenv("NOTIFICATION_EMAIL"),
		CallMeBotAPIKey:    os.Getenv("CALLMEBOT_API_KEY"),
		TextBeltKey:        getEnv("TEXTBELT_KEY", "textbelt"),
		OutreachWebhookURL: os.Getenv("OUTREACH_WEBHOOK_URL"),
		OutreachDelay:      parseDuration(getEnv("OUTREACH_DELAY", "500ms"), 500*time.Millisecond),
		PhoneRegion:        getEnv("PHONE_REGION", "UG"),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SEARCH", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SEARCH value: %w", err)
	}
	cfg.RateLimitSearch = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
