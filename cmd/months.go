package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vrogeon/repartkey/app"
	"github.com/vrogeon/repartkey/config"
	"github.com/vrogeon/repartkey/core/stats"
)

var monthsRun string

var monthsCmd = &cobra.Command{
	Use:   "months <producer-id>",
	Short: "Print the monthly KPIs of a producer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *app.Service, cfg *config.Config) error {
			// The memory store only holds the runs of this process.
			if cfg.KPI.Backend == "memory" {
				if _, err := compute(svc); err != nil {
					return err
				}
			}
			recs, err := svc.Months(monthsRun, args[0])
			if err != nil {
				return err
			}
			return printMonths(cmd.OutOrStdout(), recs)
		})
	},
}

func init() {
	monthsCmd.Flags().StringVar(&monthsRun, "run", "", "run id (latest when empty)")
	addComputeFlags(monthsCmd)
	rootCmd.AddCommand(monthsCmd)
}

func printMonths(out io.Writer, recs []stats.Record) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "MONTH\tCONSUMER\tCONSUMPTION kWh\tAUTO-CONSUMPTION kWh\tAUTO-PRODUCTION %%\n")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%.0f\t%.0f\t%.2f\n", r.Month, r.ConsumerID, r.ConsumptionKWh, r.AutoConsumptionKWh, r.AutoProductionRate)
	}
	return tw.Flush()
}
