package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultDBPath      = "./houtcalc.db"
	defaultPort        = "8080"
	defaultEnv         = "development"
	defaultLogLevel    = "info"
	defaultLogFormat   = "json"
	defaultMaxUploadMB = 20
	envDevelopment     = "development"
	dotEnvPath         = ".env"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	DBPath        string
	Port          string
	MigrationsDir string
	LogLevel      string
	LogFormat     string
	MaxUploadMB   int
	AdminToken    string
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == envDevelopment
}

// MaxUploadBytes is the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Load reads environment variables and returns a populated Config together
// with warnings the caller should log.
func Load() (Config, []string) {
	var warnings []string

	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if _, err := loadDotEnv(dotEnvPath); err != nil {
		warnings = append(warnings, "could not read "+dotEnvPath+": "+err.Error())
	}

	cfg := Config{
		Env:           strings.ToLower(os.Getenv("APP_ENV")),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     os.Getenv("LOG_FORMAT"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
		MaxUploadMB:   defaultMaxUploadMB,
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}
	if raw := os.Getenv("MAX_UPLOAD_MB"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			warnings = append(warnings, "MAX_UPLOAD_MB is not a positive integer, using default")
		} else {
			cfg.MaxUploadMB = n
		}
	}

	if cfg.AdminToken == "" && !cfg.IsDev() {
		warnings = append(warnings, "ADMIN_TOKEN is not set: price editing is disabled")
	}

	return cfg, warnings
}
