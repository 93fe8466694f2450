package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from the given .env files (".env" when none are
// given). Variables already set in the environment win. A missing file is not
// an error.
func LoadEnvFile(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// GetEnv returns the environment variable key, or fallback when it is unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	strValue := GetEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := GetEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

type ServerConfig struct {
	Port string
}

func LoadServerConfig(defaultPort string) ServerConfig {
	port := GetEnv("SERVER_PORT", defaultPort)
	return ServerConfig{Port: ":" + port}
}

// BackendConfig describes the remote REST backend the console drives.
type BackendConfig struct {
	BaseURL      string
	AssetBaseURL string // host serving product images referenced by image_url
	Timeout      time.Duration
}

func LoadBackendConfig() BackendConfig {
	return BackendConfig{
		BaseURL:      GetEnv("BACKEND_URL", "http://localhost:8000/api"),
		AssetBaseURL: GetEnv("ASSET_BASE_URL", "http://localhost:8000"),
		Timeout:      GetEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second),
	}
}

type RateConfig struct {
	URL         string
	Currency    string
	RefreshSpec string
}

func LoadRateConfig() RateConfig {
	return RateConfig{
		URL:         GetEnv("RATE_URL", "https://v6.exchangerate-api.com/v6/latest/USD"),
		Currency:    GetEnv("RATE_CURRENCY", "VES"),
		RefreshSpec: GetEnv("RATE_REFRESH_SPEC", "@every 15m"),
	}
}

type ConsoleConfig struct {
	Server            ServerConfig
	Backend           BackendConfig
	Rate              RateConfig
	AlertPollSpec     string
	SessionIdleTTL    time.Duration
	SweepSpec         string
	InventoryPageSize int
	SalesPageSize     int
	POSPageSize       int
}

func LoadConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		Server:            LoadServerConfig("8090"),
		Backend:           LoadBackendConfig(),
		Rate:              LoadRateConfig(),
		AlertPollSpec:     GetEnv("ALERT_POLL_SPEC", "@every 60s"),
		SessionIdleTTL:    GetEnvAsDuration("SESSION_IDLE_TTL", 8*time.Hour),
		SweepSpec:         GetEnv("SESSION_SWEEP_SPEC", "@every 1m"),
		InventoryPageSize: GetEnvAsInt("INVENTORY_PAGE_SIZE", 9),
		SalesPageSize:     GetEnvAsInt("SALES_PAGE_SIZE", 8),
		POSPageSize:       GetEnvAsInt("POS_PAGE_SIZE", 8),
	}
}
