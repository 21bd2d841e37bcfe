package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Port               string
	Environment        string
	APIKey             string
	AdminUsername      string
	AdminPassword      string
	PricingPolicyPath  string
	ComponentModelsDir string
	MaxUploadMB        int64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		APIKey:             getEnv("API_KEY", ""),
		AdminUsername:      getEnv("ADMIN_USERNAME", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		PricingPolicyPath:  getEnv("PRICING_POLICY_PATH", "configs/pricing_policy.yaml"),
		ComponentModelsDir: getEnv("COMPONENT_MODELS_DIR", "data/component_models"),
		MaxUploadMB:        getEnvInt64("MAX_UPLOAD_MB", 10),
	}
}

// MaxUploadBytes is MaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt64 falls back to defaultValue when the variable is unset, malformed or not positive.
func getEnvInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
