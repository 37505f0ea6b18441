// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceHTTP     = "http"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

const defaultFeedURL = "https://dadosloja2.s3.us-east-2.amazonaws.com/precos2.json"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Port     string
	LogLevel string

	FeedSource      string
	FeedURL         string
	RefreshInterval time.Duration
	FetchTimeout    time.Duration

	S3Bucket          string
	S3Key             string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	DBDSN string

	MetricsToken   string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads CONFIG_FILE if set, otherwise .env when present. Variables
// already in the environment win over file values.
func Load() (Config, error) {
	if f := os.Getenv("CONFIG_FILE"); f != "" {
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := Config{
		Port:     getenv("PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		FeedSource:      strings.ToLower(getenv("FEED_SOURCE", SourceHTTP)),
		FeedURL:         getenv("FEED_URL", defaultFeedURL),
		RefreshInterval: getdur("REFRESH_INTERVAL", 30*time.Second),
		FetchTimeout:    getdur("FETCH_TIMEOUT", 10*time.Second),

		S3Bucket:          getenv("FEED_S3_BUCKET", ""),
		S3Key:             getenv("FEED_S3_KEY", "precos2.json"),
		S3Region:          getenv("FEED_S3_REGION", "us-east-2"),
		S3Endpoint:        getenv("FEED_S3_ENDPOINT", ""),
		S3AccessKeyID:     getenv("FEED_S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getenv("FEED_S3_SECRET_ACCESS_KEY", ""),

		DBDSN: getenv("DB_DSN", ""),

		MetricsToken:   os.Getenv("METRICS_TOKEN"),
		RateLimitRPS:   getfloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getint("RATE_LIMIT_BURST", 20),
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.FeedSource {
	case SourceHTTP:
		if c.FeedURL == "" {
			return fmt.Errorf("%w: FEED_URL is required", ErrInvalid)
		}
	case SourceS3:
		if c.S3Bucket == "" || c.S3Key == "" {
			return fmt.Errorf("%w: FEED_S3_BUCKET and FEED_S3_KEY are required", ErrInvalid)
		}
	case SourcePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("%w: DB_DSN is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown FEED_SOURCE %q", ErrInvalid, c.FeedSource)
	}

	if c.RefreshInterval <= 0 {
		return fmt.Errorf("%w: REFRESH_INTERVAL must be positive", ErrInvalid)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalid)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	n, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return def
	}
	return n
}

func getfloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(getenv(k, ""), 64)
	if err != nil {
		return def
	}
	return f
}

func getdur(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getenv(k, ""))
	if err != nil {
		return def
	}
	return d
}
