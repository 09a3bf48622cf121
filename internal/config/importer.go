package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ImporterConfig tunes the bulk import and webhook apply behavior.
type ImporterConfig struct {
	// ConflictMode decides what happens when a bulk import sees an
	// external key that already exists locally: "skip" or "update".
	ConflictMode string `mapstructure:"conflictMode"`

	// CategorySeparator splits category path strings into segments.
	CategorySeparator string `mapstructure:"categorySeparator"`

	Alerts ImporterAlertConfig `mapstructure:"alerts"`
}

type ImporterAlertConfig struct {
	// FailureThreshold is the number of consecutive webhook failures
	// for one topic before an operator alert is raised.
	FailureThreshold int `mapstructure:"failureThreshold"`
}

func DefaultImporterConfig() ImporterConfig {
	return ImporterConfig{
		ConflictMode:      "skip",
		CategorySeparator: " > ",
		Alerts: ImporterAlertConfig{
			FailureThreshold: 3,
		},
	}
}

// ImporterConfigHolder serves the current importer config and hot-reloads
// it when the file changes.
type ImporterConfigHolder struct {
	current atomic.Value // holds ImporterConfig
}

func NewImporterConfigHolder() (*ImporterConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("importer")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/storesync/config") // Volume-mounted config
	v.AddConfigPath("/etc/storesync")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("STORESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultImporterConfig()
	v.SetDefault("importer.conflictMode", defaults.ConflictMode)
	v.SetDefault("importer.categorySeparator", defaults.CategorySeparator)
	v.SetDefault("importer.alerts.failureThreshold", defaults.Alerts.FailureThreshold)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ImporterConfig
	if err := v.UnmarshalKey("importer", &cfg); err != nil {
		return nil, err
	}
	if err := validateImporterConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ImporterConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ImporterConfig
		if err := v.UnmarshalKey("importer", &updated); err != nil {
			log.Printf("[importer-config] reload failed: %v", err)
			return
		}
		if err := validateImporterConfig(updated); err != nil {
			log.Printf("[importer-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[importer-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ImporterConfigHolder) Get() ImporterConfig {
	if h == nil {
		return DefaultImporterConfig()
	}
	if cfg, ok := h.current.Load().(ImporterConfig); ok {
		return cfg
	}
	return DefaultImporterConfig()
}

func validateImporterConfig(cfg ImporterConfig) error {
	switch cfg.ConflictMode {
	case "skip", "update":
	default:
		return errors.New("importer.conflictMode must be skip or update")
	}
	if strings.TrimSpace(cfg.CategorySeparator) == "" {
		return errors.New("importer.categorySeparator must not be blank")
	}
	if cfg.Alerts.FailureThreshold <= 0 {
		return errors.New("importer.alerts.failureThreshold must be positive")
	}
	return nil
}
