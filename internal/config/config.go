package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/nezhnik/omonete-sub001/pkg/config"
)

// Config holds the runtime configuration for the catalog pipeline.
// It supports environment-based initialization, with sensible defaults.
type Config struct {
	ServiceName string // e.g. "catalogctl", "catalogd"
	Env         string // e.g. "dev", "uat", "prod"
	DatabaseURL string
	LogLevel    string // "debug", "info", etc.

	// Optional integrations; empty value disables the integration.
	RedisAddr string
	RedisDB   int
	RedisPass string
	NATSURL   string

	// Daemon settings.
	Port          int           // ops HTTP port (health, metrics)
	CycleInterval time.Duration // normalize+export cycle period
	CycleOnStart  bool          // run the first cycle immediately instead of waiting a full interval

	// Artifact layout.
	ExportDir     string // where coins.json and coins/<id>.json are written
	SiteDir       string // static site source tree root
	RoutesDir     string // dynamic route sources withdrawn around a build
	ChartArtifact string // externally refreshed artifact purged after a build

	// Export paging.
	PageLimit    int // default page size
	PageLimitMax int // hard clamp
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	return &Config{
		ServiceName:   pkgconfig.GetEnv("SERVICE_NAME", "catalog-pipeline"),
		Env:           pkgconfig.GetEnv("ENV", "dev"),
		DatabaseURL:   pkgconfig.GetEnv("DATABASE_URL", ""),
		LogLevel:      pkgconfig.GetEnv("LOG_LEVEL", "info"),
		RedisAddr:     pkgconfig.GetEnv("REDIS_ADDR", ""),
		RedisDB:       pkgconfig.GetEnvInt("REDIS_DB", 0),
		RedisPass:     pkgconfig.GetEnv("REDIS_PASS", ""),
		NATSURL:       pkgconfig.GetEnv("NATS_URL", ""),
		Port:          pkgconfig.GetEnvInt("OPS_PORT", 9040),
		CycleInterval: pkgconfig.GetEnvDuration("CYCLE_INTERVAL", 6*time.Hour),
		CycleOnStart:  pkgconfig.GetEnvBool("CYCLE_ON_START", true),
		ExportDir:     pkgconfig.GetEnv("EXPORT_DIR", "public/data"),
		SiteDir:       pkgconfig.GetEnv("SITE_DIR", "."),
		RoutesDir:     pkgconfig.GetEnv("ROUTES_DIR", "pages/api"),
		ChartArtifact: pkgconfig.GetEnv("CHART_ARTIFACT", "public/data/metal-prices.json"),
		PageLimit:     pkgconfig.GetEnvInt("PAGE_LIMIT", 100),
		PageLimitMax:  pkgconfig.GetEnvInt("PAGE_LIMIT_MAX", 500),
	}
}

// Validate checks the connection configuration before any store access is
// attempted. A missing or malformed DATABASE_URL is a configuration error
// and must fail the process fast.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("malformed DATABASE_URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("malformed DATABASE_URL: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("malformed DATABASE_URL: missing host")
	}
	return nil
}
