package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/checkoutsim/analysis"
	"github.com/sarchlab/checkoutsim/seriesio"
	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize the statistic series of a finished batch.",
	Long: `Summarize reads the .dat files in the output directory and ` +
		`prints the mean, spread and 95% confidence interval of each ` +
		`statistic next to the M/M/1 steady-state value for the ` +
		`configured rates.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		series, err := seriesio.ReadSeries(cfg.OutputDir)
		if err != nil {
			return err
		}

		theory := analysis.MM1Theory(cfg.ArrivalRate, cfg.ServiceRate)

		return printSummary(cmd.OutOrStdout(), series, theory)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func printSummary(
	out io.Writer,
	series *seriesio.Series,
	theory analysis.Theory,
) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "statistic\ttrials\tNaN\tmean\tstd dev\t95%% CI\t"+
		"min\tmedian\tmax\ttheory\n")

	rows := []struct {
		name   string
		values []float64
		theory float64
	}{
		{"utilisation", series.Utilisation, theory.Utilisation},
		{"mean customers", series.MeanCustomers,
			theory.MeanCustomersInSystem},
		{"mean system time", series.MeanSystemTime, theory.MeanSystemTime},
	}

	for _, r := range rows {
		s := analysis.Summarize(r.values)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.6f\t%.6f\t±%.6f\t%.6f\t%.6f\t%.6f\t%.6f\n",
			r.name, s.Count, s.NaNCount, s.Mean, s.StdDev, s.CI95,
			s.Min, s.Median, s.Max, r.theory)
	}

	return w.Flush()
}
