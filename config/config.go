// Package config collects the settings of a checkout batch from defaults, a
// .env file, CHECKOUT_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "CHECKOUT"

// Config holds the settings of a batch.
type Config struct {
	Trials      int
	Horizon     float64
	ArrivalRate float64
	ServiceRate float64
	Seed        uint64
	Workers     int
	OutputDir   string
	DBPath      string
	ReportEvery int
	MonitorPort int
	OpenBrowser bool
	LogLevel    string
}

// Defaults returns the settings used when nothing else is given.
func Defaults() Config {
	return Config{
		Trials:      500000,
		Horizon:     5000,
		ArrivalRate: 4,
		ServiceRate: 5,
		Seed:        1,
		Workers:     1,
		OutputDir:   ".",
		ReportEvery: 100000,
		MonitorPort: -1,
		LogLevel:    "info",
	}
}

const (
	keyTrials      = "trials"
	keyHorizon     = "horizon"
	keyArrivalRate = "arrival-rate"
	keyServiceRate = "service-rate"
	keySeed        = "seed"
	keyWorkers     = "workers"
	keyOutputDir   = "output-dir"
	keyDBPath      = "db"
	keyReportEvery = "report-every"
	keyMonitorPort = "monitor-port"
	keyOpenBrowser = "open-browser"
	keyLogLevel    = "log-level"
)

// RegisterFlags adds one flag per setting to flags, with the defaults as
// flag defaults.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Defaults()

	flags.Int(keyTrials, d.Trials, "number of trials")
	flags.Float64(keyHorizon, d.Horizon, "simulated time of one trial")
	flags.Float64(keyArrivalRate, d.ArrivalRate, "customer arrival rate")
	flags.Float64(keyServiceRate, d.ServiceRate, "service rate")
	flags.Uint64(keySeed, d.Seed, "seed of the random streams")
	flags.Int(keyWorkers, d.Workers,
		"simulators running at the same time, each with its own streams")
	flags.String(keyOutputDir, d.OutputDir, "directory of the .dat files")
	flags.String(keyDBPath, d.DBPath,
		"SQLite file receiving every trial, empty to disable")
	flags.Int(keyReportEvery, d.ReportEvery,
		"trials between two progress lines, 0 to disable")
	flags.Int(keyMonitorPort, d.MonitorPort,
		"port of the monitor server, 0 for any port, negative to disable")
	flags.Bool(keyOpenBrowser, d.OpenBrowser, "open the monitor in a browser")
	flags.String(keyLogLevel, d.LogLevel, "debug, info, warn or error")
}

// Load reads the settings. envFile may be empty, and a missing file is not
// an error. flags may be nil.
func Load(envFile string, flags *pflag.FlagSet) (Config, error) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, err
		}
	}

	c := Config{
		Trials:      v.GetInt(keyTrials),
		Horizon:     v.GetFloat64(keyHorizon),
		ArrivalRate: v.GetFloat64(keyArrivalRate),
		ServiceRate: v.GetFloat64(keyServiceRate),
		Seed:        v.GetUint64(keySeed),
		Workers:     v.GetInt(keyWorkers),
		OutputDir:   v.GetString(keyOutputDir),
		DBPath:      v.GetString(keyDBPath),
		ReportEvery: v.GetInt(keyReportEvery),
		MonitorPort: v.GetInt(keyMonitorPort),
		OpenBrowser: v.GetBool(keyOpenBrowser),
		LogLevel:    v.GetString(keyLogLevel),
	}

	return c, c.Validate()
}

func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault(keyTrials, d.Trials)
	v.SetDefault(keyHorizon, d.Horizon)
	v.SetDefault(keyArrivalRate, d.ArrivalRate)
	v.SetDefault(keyServiceRate, d.ServiceRate)
	v.SetDefault(keySeed, d.Seed)
	v.SetDefault(keyWorkers, d.Workers)
	v.SetDefault(keyOutputDir, d.OutputDir)
	v.SetDefault(keyDBPath, d.DBPath)
	v.SetDefault(keyReportEvery, d.ReportEvery)
	v.SetDefault(keyMonitorPort, d.MonitorPort)
	v.SetDefault(keyOpenBrowser, d.OpenBrowser)
	v.SetDefault(keyLogLevel, d.LogLevel)
}

// Validate checks that every setting is in range.
func (c Config) Validate() error {
	switch {
	case c.Trials < 0:
		return fmt.Errorf("%w: trials must not be negative, got %d",
			ErrInvalidConfig, c.Trials)
	case !positive(c.Horizon):
		return fmt.Errorf("%w: horizon must be finite and positive, got %v",
			ErrInvalidConfig, c.Horizon)
	case !positive(c.ArrivalRate):
		return fmt.Errorf(
			"%w: arrival rate must be finite and positive, got %v",
			ErrInvalidConfig, c.ArrivalRate)
	case !positive(c.ServiceRate):
		return fmt.Errorf(
			"%w: service rate must be finite and positive, got %v",
			ErrInvalidConfig, c.ServiceRate)
	case c.Workers < 1:
		return fmt.Errorf("%w: at least one worker is required, got %d",
			ErrInvalidConfig, c.Workers)
	case c.ReportEvery < 0:
		return fmt.Errorf("%w: report interval must not be negative, got %d",
			ErrInvalidConfig, c.ReportEvery)
	case c.MonitorPort > 65535:
		return fmt.Errorf("%w: monitor port out of range, got %d",
			ErrInvalidConfig, c.MonitorPort)
	}

	return nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
