package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vrogeon/repartkey/app"
	"github.com/vrogeon/repartkey/config"
)

var computeOpts app.ComputeOptions

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the repartition keys and write the reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(svc *app.Service, _ *config.Config) error {
			rep, err := compute(svc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s (%s): %d slots", rep.Run.ID, rep.Run.Strategy, len(rep.Run.Slots))
			if rep.Run.Truncated > 0 {
				fmt.Fprintf(out, ", %d truncated", rep.Run.Truncated)
			}
			fmt.Fprintln(out)
			for _, f := range rep.Files {
				fmt.Fprintln(out, f)
			}
			return nil
		})
	},
}

func init() {
	addComputeFlags(computeCmd)
	rootCmd.AddCommand(computeCmd)
}

func addComputeFlags(c *cobra.Command) {
	c.Flags().StringVar(&computeOpts.Strategy, "strategy", "", "override repartition.strategy (default, dynamic, static)")
	c.Flags().Float64Var(&computeOpts.Factor, "factor", 0, "scale every producer series by this factor")
}

func compute(svc *app.Service) (*app.Report, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return svc.Compute(ctx, computeOpts)
}
