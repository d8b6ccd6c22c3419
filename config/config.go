package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	App      AppConfig
	KPI      KPIConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file path
}

// AppConfig holds application configuration
type AppConfig struct {
	Environment string
	Port        string
	StaticDir   string
}

// KPIConfig holds KPI targets and week-ending conventions
type KPIConfig struct {
	FingerRateTarget      float64
	ProvisionalRateTarget float64
	WriteInRateTarget     float64
	MissingCoRateTarget   float64
	ManualRateTarget      float64
	// Offices whose client work week ends on Saturday; all others end Sunday.
	SaturdayOffices []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist in production
		fmt.Println("No .env file found")
	}

	config := &Config{
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "bstt"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "data/bstt.sqlite3"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			StaticDir:   getEnv("STATIC_DIR", "./web/static"),
		},
		KPI: KPIConfig{
			FingerRateTarget:      getEnvFloat("KPI_FINGER_RATE_TARGET", 95.0),
			ProvisionalRateTarget: getEnvFloat("KPI_PROVISIONAL_RATE_TARGET", 1.0),
			WriteInRateTarget:     getEnvFloat("KPI_WRITE_IN_RATE_TARGET", 3.0),
			MissingCoRateTarget:   getEnvFloat("KPI_MISSING_CO_RATE_TARGET", 2.0),
			ManualRateTarget:      getEnvFloat("KPI_MANUAL_RATE_TARGET", 5.0),
			SaturdayOffices:       splitList(getEnv("SATURDAY_OFFICES", "Martinsburg")),
		},
	}

	return config, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var f float64
	if _, err := fmt.Sscanf(strings.TrimSpace(value), "%f", &f); err != nil {
		return fallback
	}
	return f
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
