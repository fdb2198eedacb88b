package config

import (
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const liveKeyPrefix = "rzp_live_"

type Settings struct {
	KeyID          string
	KeySecret      string
	GatewayBaseURL string
	GatewayTimeout time.Duration
	ServerPort     string
	Environment    string
}

func LoadEnvironmentConfig() *Settings {
	return &Settings{
		KeyID:          getEnvironmentVariable("RAZORPAY_KEY_ID", getEnvironmentVariable("VITE_RAZORPAY_KEY_ID", "")),
		KeySecret:      getEnvironmentVariable("RAZORPAY_KEY_SECRET", ""),
		GatewayBaseURL: getEnvironmentVariable("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		GatewayTimeout: 10 * time.Second,
		ServerPort:     getEnvironmentVariable("PORT", "8080"),
		Environment:    getEnvironmentVariable("APP_ENV", "production"),
	}
}

func (s *Settings) HasCredentials() bool {
	return s.KeyID != "" && s.KeySecret != ""
}

// IsLiveKey reports whether the configured key id belongs to live mode.
// Anything without the live prefix, test keys included, counts as test mode.
func (s *Settings) IsLiveKey() bool {
	return strings.HasPrefix(s.KeyID, liveKeyPrefix)
}

func (s *Settings) IsProduction() bool {
	return s.Environment == "production"
}

func getEnvironmentVariable(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
