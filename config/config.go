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

	"github.com/vrogeon/repartkey/core/metrics"
	"github.com/vrogeon/repartkey/core/repartition"
)

type Config struct {
	Project     ProjectConfig      `json:"project"`
	Repartition repartition.Config `json:"repartition"`
	Export      ExportConfig       `json:"export"`
	Metrics     metrics.Config     `json:"metrics"`
	KPI         KPIConfig          `json:"kpi"`
	Logging     LoggingConfig      `json:"logging"`
}

// Default returns a configuration holding every default value.
func Default() Config {
	cfg := Config{Export: DefaultExportConfig()}
	cfg.SetDefaults()
	return cfg
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
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	// Column toggles default to true, so they are set before unmarshalling.
	cfg := Config{Export: DefaultExportConfig()}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Project.resolvePaths(filepath.Dir(path))
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Project.SetDefaults()
	c.Repartition.SetDefaults()
	c.Export.SetDefaults()
	c.KPI.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Project.Validate(); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if err := c.Repartition.Validate(); err != nil {
		return fmt.Errorf("repartition: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.KPI.Validate(); err != nil {
		return fmt.Errorf("kpi: %w", err)
	}
	return c.Logging.Validate()
}
