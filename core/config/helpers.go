package config

import (
	"os"
	"strconv"
	"strings"
)

// GetAllSettings returns a map of the dynamic settings currently loaded in
// memory, for the health endpoint.
func GetAllSettings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_debug":               Global.App.Debug,
		"app_version":             Global.App.Version,
		"app_environment":         Global.App.Environment,
		"db_driver":               Global.Database.Driver,
		"evolution_instance":      Global.Evolution.InstanceName,
		"dispatch_load_retries":   Global.Dispatch.LoadRetries,
		"dispatch_retry_delay_ms": Global.Dispatch.RetryDelay.Milliseconds(),
	}
}

// Helpers
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}
