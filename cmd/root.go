package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrogeon/repartkey/app"
	"github.com/vrogeon/repartkey/config"
	"github.com/vrogeon/repartkey/infra/logger"
	// registers the metrics sink factories
	_ "github.com/vrogeon/repartkey/infra/metrics"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "repartkey",
	Short:        "Repartition keys for collective self-consumption",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// withService loads the configuration and runs fn with a service that is
// closed afterwards.
func withService(fn func(*app.Service, *config.Config) error) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return fn(svc, cfg)
}
