package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/sarchlab/checkoutsim/analysis"
	"github.com/sarchlab/checkoutsim/batch"
	"github.com/sarchlab/checkoutsim/checkout"
	"github.com/sarchlab/checkoutsim/config"
	"github.com/sarchlab/checkoutsim/datarecording"
	"github.com/sarchlab/checkoutsim/monitoring"
	"github.com/sarchlab/checkoutsim/seriesio"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"
)

// autoDBPath asks for a generated database name.
const autoDBPath = "auto"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch of trials and write the statistic series.",
	Long: `Run executes the configured number of trials and writes ` +
		seriesio.UtilisationFile + `, ` + seriesio.MeanCustomersFile +
		` and ` + seriesio.MeanSystemTimeFile + ` to the output ` +
		`directory. With --db every trial is also stored in SQLite ` +
		`("auto" picks a fresh file name).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		ctx, stop := signal.NotifyContext(
			cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runBatch(ctx, cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBatch(
	ctx context.Context,
	cfg config.Config,
	logger *zap.SugaredLogger,
) error {
	builder := batch.MakeBuilder().
		WithWorkers(cfg.Workers).
		WithReportEvery(cfg.ReportEvery).
		WithLogger(logger)

	monitor, err := startMonitor(cfg, logger)
	if err != nil {
		return err
	}

	var bar *monitoring.ProgressBar
	if monitor != nil {
		defer monitor.StopServer() //nolint:errcheck

		builder = builder.WithMonitor(monitor)
		bar = monitor.CreateProgressBar("trials", uint64(cfg.Trials))
		defer monitor.CompleteProgressBar(bar)
	} else {
		bar = monitoring.NewProgressBar("trials", uint64(cfg.Trials))
	}
	builder = builder.WithProgressBar(bar)

	recorder, err := openRecorder(cfg, logger)
	if err != nil {
		return err
	}

	if recorder != nil {
		builder = builder.WithRecorder(recorder)
		defer recorder.Flush()
	}

	simulators := checkout.MakeBuilder().
		WithHorizon(cfg.Horizon).
		WithArrivalRate(cfg.ArrivalRate).
		WithServiceRate(cfg.ServiceRate).
		WithSeed(cfg.Seed)

	b, err := builder.Build(batch.SimulatorFactory(simulators))
	if err != nil {
		return err
	}

	series, err := b.Run(ctx, cfg.Trials)
	if batch.IsCancelled(err) {
		logger.Warnw("batch cancelled", "finished", finished(bar))
		return err
	}

	if err != nil {
		return err
	}

	if err := seriesio.WriteSeries(cfg.OutputDir, series); err != nil {
		return err
	}

	logSummary(logger, cfg, series)

	return nil
}

func finished(bar *monitoring.ProgressBar) uint64 {
	done, _ := bar.Progress()
	return done
}

func startMonitor(
	cfg config.Config,
	logger *zap.SugaredLogger,
) (*monitoring.Monitor, error) {
	if cfg.MonitorPort < 0 {
		return nil, nil
	}

	monitor := monitoring.NewMonitor().WithPortNumber(cfg.MonitorPort)

	url, err := monitor.StartServer()
	if err != nil {
		return nil, err
	}

	logger.Infow("monitor started", "url", url)

	if cfg.OpenBrowser {
		if err := browser.OpenURL(url); err != nil {
			logger.Warnw("cannot open browser", "url", url, "error", err)
		}
	}

	return monitor, nil
}

func openRecorder(
	cfg config.Config,
	logger *zap.SugaredLogger,
) (*datarecording.TrialRecorder, error) {
	if cfg.DBPath == "" {
		return nil, nil
	}

	path := cfg.DBPath
	if path == autoDBPath {
		path = datarecording.DefaultPath()
	}

	db, err := datarecording.NewSQLiteRecorder(path)
	if err != nil {
		return nil, err
	}

	atexit.Register(func() {
		if err := db.Close(); err != nil {
			logger.Warnw("closing trial database", "error", err)
		}
	})

	recorder := datarecording.NewTrialRecorder(db)
	logger.Infow("recording trials", "path", path, "run", recorder.RunID())

	return recorder, nil
}

func logSummary(
	logger *zap.SugaredLogger,
	cfg config.Config,
	series *seriesio.Series,
) {
	theory := analysis.MM1Theory(cfg.ArrivalRate, cfg.ServiceRate)

	u := analysis.Summarize(series.Utilisation)
	l := analysis.Summarize(series.MeanCustomers)
	w := analysis.Summarize(series.MeanSystemTime)

	logger.Infow("batch summary",
		"trials", series.Len(),
		"utilisation", u.Mean,
		"utilisationTheory", theory.Utilisation,
		"meanCustomers", l.Mean,
		"meanCustomersTheory", theory.MeanCustomersInSystem,
		"meanSystemTime", w.Mean,
		"meanSystemTimeTheory", theory.MeanSystemTime,
		"trialsWithoutDeparture", w.NaNCount,
	)
}
