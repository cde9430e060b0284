package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// sheets service
	SheetsDBPath string
	SolverURL    string
	UnitSystem   string

	// gateway
	SheetsURL   string
	CORSOrigins []string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		SheetsDBPath: getEnv("SHEETS_DB_PATH", "data/db/sheets.db"),
		SolverURL:    getEnv("SOLVER_URL", "http://localhost:5000"),
		UnitSystem:   getEnv("UNIT_SYSTEM", "metric"),
		SheetsURL:    getEnv("SHEETS_URL", "http://localhost:3003"),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS"),
	}
}

// IsProduction — true для ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
