package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1000.0, cfg.UnitPriceMeanThreshold)
	assert.Equal(t, 0.99, cfg.OutlierQuantile)
	assert.Equal(t, 10, cfg.TopProductCount)
	assert.Equal(t, []string{"utf-8", "iso-8859-1"}, cfg.CSVEncodings)
	assert.Nil(t, cfg.Postgres)
	assert.Nil(t, cfg.Snowflake)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("UNIT_PRICE_MEAN_THRESHOLD", "500")
	t.Setenv("OUTLIER_QUANTILE", "0.95")
	t.Setenv("TOP_PRODUCT_COUNT", "5")
	t.Setenv("CSV_ENCODINGS", "utf-8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500.0, cfg.UnitPriceMeanThreshold)
	assert.Equal(t, 0.95, cfg.OutlierQuantile)
	assert.Equal(t, 5, cfg.TopProductCount)
	assert.Equal(t, []string{"utf-8"}, cfg.CSVEncodings)
}

func TestLoadPostgresRequiresCredentials(t *testing.T) {
	t.Setenv("POSTGRES_USER", "analyst")
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("POSTGRES_DB", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadPostgresComplete(t *testing.T) {
	t.Setenv("POSTGRES_USER", "analyst")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "sales")
	t.Setenv("POSTGRES_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.Postgres)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Contains(t, cfg.Postgres.ConnectionString(), "dbname=sales")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.OutlierQuantile = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.UnitPriceMeanThreshold = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.TopProductCount = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.CSVEncodings = nil
	assert.Error(t, cfg.Validate())
}
