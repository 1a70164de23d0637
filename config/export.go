package config

import (
	"fmt"

	"github.com/vrogeon/repartkey/pkg/export"
)

// ExportConfig defines where and how reports are written.
type ExportConfig struct {
	Folder     string                   `json:"folder"`
	Formats    []string                 `json:"formats"`
	Statistics export.StatisticsOptions `json:"statistics"`
	Monthly    export.MonthlyOptions    `json:"monthly"`
}

// DefaultExportConfig holds the default column toggles.
func DefaultExportConfig() ExportConfig {
	o := export.DefaultOptions()
	return ExportConfig{Statistics: o.Statistics, Monthly: o.Monthly}
}

func (c *ExportConfig) SetDefaults() {
	if c.Folder == "" {
		c.Folder = "export"
	}
	if len(c.Formats) == 0 {
		c.Formats = export.DefaultOptions().Formats
	}
}

func (c ExportConfig) Validate() error {
	for _, f := range c.Formats {
		if !export.ValidFormat(f) {
			return fmt.Errorf("unknown format %s", f)
		}
	}
	return nil
}

// Options converts the section into writer options.
func (c ExportConfig) Options() export.Options {
	return export.Options{Formats: c.Formats, Statistics: c.Statistics, Monthly: c.Monthly}
}
