package cli

import (
	"os"
	"time"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Addr      string
	Username  string
	Password  string
	Output    string
	Timeout   time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("DNCLIENT_SERVER", "http://localhost:8080"),
		Addr:      getEnvOrDefault("DNCLIENT_ADDR", "localhost:9000"),
		Username:  os.Getenv("DNCLIENT_USER"),
		Password:  os.Getenv("DNCLIENT_PASSWORD"),
		Output:    "text",
		Timeout:   10 * time.Second,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
