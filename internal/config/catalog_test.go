package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogConfigFallsBackWhenUnset(t *testing.T) {
	cfg := DefaultCatalogConfig(Config{})
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "/dashboard/planos", cfg.UpgradeRedirect)
}

func TestReadCatalogConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("catalog:\n  cacheTTL: 90s\n  upgradeRedirect: /planos\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.yml"), content, 0o600))

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "catalog.yml"))
	require.NoError(t, v.ReadInConfig())

	cfg, err := readCatalogConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, "/planos", cfg.UpgradeRedirect)
}

func TestReadCatalogConfigRejectsNonPositiveTTL(t *testing.T) {
	v := viper.New()
	v.Set("catalog.cacheTTL", "0s")
	v.Set("catalog.upgradeRedirect", "/planos")

	_, err := readCatalogConfig(v)
	assert.Error(t, err)
}

func TestStaticHolderReturnsStoredValue(t *testing.T) {
	holder := NewStaticCatalogConfigHolder(CatalogConfig{CacheTTL: time.Minute, UpgradeRedirect: "/x"})
	assert.Equal(t, time.Minute, holder.Get().CacheTTL)
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("PLAN_CACHE_TTL", "2m")
	t.Setenv("ENFORCE_ORDER_LIMIT", "yes")
	t.Setenv("QUOTE_RATE_LIMIT_BURST", "not-a-number")

	cfg := Load()
	assert.Equal(t, 2*time.Minute, cfg.PlanCacheTTL)
	assert.True(t, cfg.EnforceOrderLimit)
	assert.Equal(t, 20, cfg.QuoteRateLimit.Burst)
}
