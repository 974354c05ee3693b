package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/checkoutsim/checkout"
	"github.com/sarchlab/checkoutsim/sim"
	"github.com/sarchlab/checkoutsim/tracing"
	"github.com/spf13/cobra"
)

var departuresCSV string

var trialCmd = &cobra.Command{
	Use:   "trial",
	Short: "Run a single traced trial.",
	Long: `Trial runs one trial with the configured parameters. Every ` +
		`event is logged at debug level and the departures can be ` +
		`written to a CSV file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		tracer := tracing.NewSojournTracer()

		s, err := checkout.MakeBuilder().
			WithHorizon(cfg.Horizon).
			WithArrivalRate(cfg.ArrivalRate).
			WithServiceRate(cfg.ServiceRate).
			WithSeed(cfg.Seed).
			WithHook(sim.NewEventLogger(logger)).
			WithHook(tracer).
			Build()
		if err != nil {
			return err
		}

		result := s.RunTrial()
		stats := s.LastStatistics()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "served              %d\n", stats.Served)
		fmt.Fprintf(out, "utilisation         %.6f\n", result.Utilisation)
		fmt.Fprintf(out, "mean customers      %.6f\n",
			result.MeanCustomersInSystem)
		fmt.Fprintf(out, "mean system time    %.6f\n", result.MeanSystemTime)

		if departuresCSV == "" {
			return nil
		}

		return writeDepartures(departuresCSV, tracer.Departures())
	},
}

func init() {
	trialCmd.Flags().StringVar(&departuresCSV, "csv", "",
		"write the departures of the trial to this CSV file")
	rootCmd.AddCommand(trialCmd)
}

func writeDepartures(path string, departures []tracing.Departure) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := tracing.WriteCSV(f, departures); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
