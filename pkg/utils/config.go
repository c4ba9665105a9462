package utils

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig reads an optional .env file from path and wires viper to the
// process environment so settings resolve from either source.
func LoadConfig(path string) {
	// Missing .env is fine, environment variables still apply.
	_ = godotenv.Load(filepath.Join(path, ".env"))

	viper.AutomaticEnv()
}
