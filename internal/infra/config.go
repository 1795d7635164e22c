package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSpaceTargets are the WAN 2.2 Space endpoints tried in order: the
// owner/space id form first, then the direct URL.
var DefaultSpaceTargets = []string{
	"zerogpu-aoti/wan2-2-fp8da-aoti",
	"https://zerogpu-aoti-wan2-2-fp8da-aoti.hf.space/",
}

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string
	Port                string
	HFToken             string
	SpaceTargets        []string
	OutputDir           string
	StorageBaseURL      string
	DatabaseURL         string
	GeoIPDBPath         string
	DefaultLocale       string
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	GenerateTimeout     time.Duration
	GenerateMaxAttempts int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Nothing is mandatory: without HF credentials or a
// database the studio still runs against the synthetic generator and the
// local filesystem.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		HFToken:             os.Getenv("HF_TOKEN"),
		SpaceTargets:        getEnvList("SPACE_TARGETS", DefaultSpaceTargets),
		OutputDir:           getEnv("OUTPUT_DIR", "videos"),
		StorageBaseURL:      getEnv("STORAGE_BASE_URL", "/videos"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		GeoIPDBPath:         os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:       getEnv("DEFAULT_LOCALE", "en"),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 600)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		GenerateTimeout:     time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 480)),
		GenerateMaxAttempts: getEnvInt("GENERATE_MAX_ATTEMPTS", 4),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
