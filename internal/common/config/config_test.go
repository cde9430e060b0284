package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "READ_TIMEOUT", "SHEETS_DB_PATH", "SOLVER_URL", "UNIT_SYSTEM", "SHEETS_URL", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10, cfg.ReadTimeout)
	assert.Equal(t, "data/db/sheets.db", cfg.SheetsDBPath)
	assert.Equal(t, "metric", cfg.UnitSystem)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("READ_TIMEOUT", "30")
	t.Setenv("WRITE_TIMEOUT", "not-a-number")
	t.Setenv("SOLVER_URL", "http://solver:5000")
	t.Setenv("UNIT_SYSTEM", "imperial")
	t.Setenv("CORS_ORIGINS", "http://a.local, ,http://b.local")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30, cfg.ReadTimeout)
	assert.Equal(t, 10, cfg.WriteTimeout)
	assert.Equal(t, "http://solver:5000", cfg.SolverURL)
	assert.Equal(t, "imperial", cfg.UnitSystem)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORSOrigins)
}
