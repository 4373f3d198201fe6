package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	appNameVar    = "APP_NAME"
	apiBaseURLVar = "API_BASE_URL"
	envVar        = "ENV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// loadDotEnv pulls in a local .env file when present. A missing file is not an
// error; real deployments configure through the environment directly.
func loadDotEnv() {
	_ = godotenv.Load()
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Jamcha Admin")
}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8081/api")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "development")
}

// GetEnv returns the value of an environment variable, or defaultValue when it
// is unset or empty.
func GetEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
