package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App       AppConfig
	Paths     PathsConfig
	Database  DatabaseConfig
	Evolution EvolutionConfig
	Dispatch  DispatchConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasicAuth          []string
	BasePath           string
	TrustedProxies     []string
	BaseUrl            string
	CorsAllowedOrigins []string
}

type PathsConfig struct {
	BaseDir   string
	Statics   string
	SendItems string
	Storages  string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string // File path for SQLite, DB Name for Postgres
}

// EvolutionConfig carries the WhatsApp gateway coordinates.
type EvolutionConfig struct {
	BaseURL      string
	APIKey       string
	InstanceName string
	Timeout      time.Duration
}

// DispatchConfig tunes the firing pipeline.
type DispatchConfig struct {
	LoadRetries int
	RetryDelay  time.Duration
}

// Global provides access to the loaded configuration globally (Migration Helper)
var Global *Config

// LoadConfig loads configuration from Environment Variables or defaults.
func LoadConfig() (*Config, error) {
	baseDir := getEnv("APP_BASE_DIR", "storages")

	debug := false
	if v := getEnv("APP_DEBUG", getEnv("DEBUG", "")); v != "" {
		debug = getEnvBool("APP_DEBUG", getEnvBool("DEBUG", false))
	}

	var basicAuth []string
	if v := getEnv("APP_BASIC_AUTH", ""); v != "" {
		basicAuth = strings.Split(v, ",")
	}

	corsOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := getEnv("APP_CORS_ALLOWED_ORIGINS", ""); v != "" {
		corsOrigins = strings.Split(v, ",")
	}

	appCfg := AppConfig{
		Version:            "v1.2.0",
		Port:               getEnv("APP_PORT", "3000"),
		Debug:              debug,
		Environment:        getEnv("APP_ENV", "development"),
		BasicAuth:          basicAuth,
		BasePath:           getEnv("APP_BASE_PATH", ""),
		BaseUrl:            getEnv("APP_BASE_URL", "http://localhost:3000"),
		CorsAllowedOrigins: corsOrigins,
	}
	if v := getEnv("APP_TRUSTED_PROXIES", ""); v != "" {
		appCfg.TrustedProxies = strings.Split(v, ",")
	}

	pathsCfg := PathsConfig{
		BaseDir:   baseDir,
		Statics:   getEnv("PATH_STATICS", "statics"),
		SendItems: getEnv("PATH_SEND_ITEMS", filepath.Join("statics", "senditems")),
		Storages:  baseDir,
	}

	dbCfg := DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "sqlite"),
		Name:     getEnv("DB_NAME", filepath.Join(pathsCfg.Storages, "scheduler.db")),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
	}

	evoCfg := EvolutionConfig{
		BaseURL:      strings.TrimRight(getEnv("EVOLUTION_API_URL", "http://localhost:8080"), "/"),
		APIKey:       getEnv("EVOLUTION_API_KEY", ""),
		InstanceName: getEnv("EVOLUTION_INSTANCE_NAME", "main"),
		Timeout:      time.Duration(getEnvInt("EVOLUTION_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	dispatchCfg := DispatchConfig{
		LoadRetries: getEnvInt("DISPATCH_LOAD_RETRIES", 3),
		RetryDelay:  time.Duration(getEnvInt("DISPATCH_RETRY_DELAY_SECONDS", 5)) * time.Second,
	}

	cfg := &Config{
		App:       appCfg,
		Paths:     pathsCfg,
		Database:  dbCfg,
		Evolution: evoCfg,
		Dispatch:  dispatchCfg,
	}

	Global = cfg
	return cfg, nil
}
