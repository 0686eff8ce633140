package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyplan/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "summed", cfg.Extract.PlanMode)
	assert.Equal(t, []string{"txt", "html", "htm", "pdf"}, cfg.Extract.Extensions)
	assert.Nil(t, cfg.Extract.LegalForms)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Batch.DocTimeout)
	assert.False(t, cfg.Auth.Enabled)
	assert.Empty(t, cfg.S3.Bucket)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SUPPLYPLAN_DB_DRIVER", "postgres")
	t.Setenv("SUPPLYPLAN_EXTRACT_LEGAL_FORMS", "ООО | Общество с ограниченной ответственностью")
	t.Setenv("SUPPLYPLAN_EXTRACT_PLAN_MODE", "per_product")
	t.Setenv("SUPPLYPLAN_BATCH_CONCURRENCY", "0")
	t.Setenv("SUPPLYPLAN_AUTH_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, []string{"ООО", "Общество с ограниченной ответственностью"}, cfg.Extract.LegalForms)
	assert.Equal(t, "per_product", cfg.Extract.PlanMode)
	assert.Equal(t, 1, cfg.Batch.Concurrency)
	assert.True(t, cfg.Auth.Enabled)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv("SUPPLYPLAN_DB_DRIVER", "oracle")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	pg := config.DBConfig{Driver: config.DriverPostgres, User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", pg.DSN())
	assert.Equal(t, pg.DSN(), pg.MigrateURL())

	lite := config.DBConfig{Driver: config.DriverSQLite, Path: "/tmp/plan.db"}
	assert.Equal(t, "file:/tmp/plan.db?_foreign_keys=on&_busy_timeout=5000", lite.DSN())
	assert.Equal(t, "sqlite3:///tmp/plan.db", lite.MigrateURL())
}
