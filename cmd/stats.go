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

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute a run and print its rates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(svc *app.Service, _ *config.Config) error {
			rep, err := compute(svc)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), rep.Summary)
		})
	},
}

func init() {
	addComputeFlags(statsCmd)
	rootCmd.AddCommand(statsCmd)
}

func printSummary(out io.Writer, sum stats.Summary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "RATE\tID\tNAME\tVALUE\n")
	row := func(kind string, rates ...stats.Rate) {
		for _, r := range rates {
			v := fmt.Sprintf("%.1f %%", r.Value)
			if !r.Available() {
				v = "n/a"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", kind, r.ID, r.Name, v)
		}
	}
	row("auto-consumption", sum.AutoConsumption...)
	row("coverage", sum.Coverage...)
	row("auto-production", sum.AutoProduction...)
	row("global auto-production", sum.GlobalAutoProduction)
	return tw.Flush()
}
