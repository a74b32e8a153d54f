package config

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// CatalogConfig tunes plan catalog reads and the upgrade prompt returned by
// the entitlement gate.
type CatalogConfig struct {
	CacheTTL        time.Duration `mapstructure:"cacheTTL"`
	UpgradeRedirect string        `mapstructure:"upgradeRedirect"`
}

func DefaultCatalogConfig(cfg Config) CatalogConfig {
	ttl := cfg.PlanCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	redirect := strings.TrimSpace(cfg.UpgradeRedirect)
	if redirect == "" {
		redirect = "/dashboard/planos"
	}
	return CatalogConfig{CacheTTL: ttl, UpgradeRedirect: redirect}
}

type CatalogConfigHolder struct {
	current atomic.Value // holds CatalogConfig
}

// NewStaticCatalogConfigHolder returns a holder that never reloads.
func NewStaticCatalogConfigHolder(cfg CatalogConfig) *CatalogConfigHolder {
	holder := &CatalogConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// NewCatalogConfigHolder reads catalog.yml when present and watches it for
// changes. Environment values from Config are the defaults.
func NewCatalogConfigHolder(cfg Config, log *zap.Logger) (*CatalogConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.catalog")

	v := viper.New()
	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/vitrine")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VITRINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCatalogConfig(cfg)
	v.SetDefault("catalog.cacheTTL", defaults.CacheTTL)
	v.SetDefault("catalog.upgradeRedirect", defaults.UpgradeRedirect)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	current, err := readCatalogConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticCatalogConfigHolder(current)
	if !fileLoaded {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := readCatalogConfig(v)
		if err != nil {
			log.Warn("catalog config reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("catalog config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

func (h *CatalogConfigHolder) Get() CatalogConfig {
	return h.current.Load().(CatalogConfig)
}

func readCatalogConfig(v *viper.Viper) (CatalogConfig, error) {
	cfg := CatalogConfig{
		CacheTTL:        v.GetDuration("catalog.cacheTTL"),
		UpgradeRedirect: strings.TrimSpace(v.GetString("catalog.upgradeRedirect")),
	}
	if err := validateCatalogConfig(cfg); err != nil {
		return CatalogConfig{}, err
	}
	return cfg, nil
}

func validateCatalogConfig(cfg CatalogConfig) error {
	if cfg.CacheTTL <= 0 {
		return errors.New("catalog.cacheTTL must be positive")
	}
	if cfg.UpgradeRedirect == "" {
		return errors.New("catalog.upgradeRedirect cannot be empty")
	}
	return nil
}
