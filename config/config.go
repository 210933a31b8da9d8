package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/qmorane/tousim/core/metrics"
	"github.com/qmorane/tousim/core/model"
)

type Config struct {
	Storage   model.StorageParams   `json:"storage"`
	Economics model.EconomicsParams `json:"economics"`
	Metrics   metrics.Config        `json:"metrics"`
	Logging   LoggingConfig         `json:"logging"`
	History   HistoryConfig         `json:"history"`
}

// HistoryConfig controls the optional run history database.
type HistoryConfig struct {
	// Path is the SQLite file location. Empty disables history.
	Path string `json:"path"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("TOUSIM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "tousim_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Storage.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Storage.Validate(); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := cfg.Economics.Validate(); err != nil {
		return nil, fmt.Errorf("economics: %w", err)
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return &cfg, nil
}
