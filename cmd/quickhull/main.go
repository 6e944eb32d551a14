package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quickhull-bench/internal/domain"
	"quickhull-bench/internal/infrastructure"

	"github.com/natefinch/lumberjack"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagValues holds command line values; they override the config file only
// when the flag was set explicitly.
type flagValues struct {
	configPath string
	config     domain.Config
	threads    uint
}

func newRootCommand() *cobra.Command {
	fv := &flagValues{}
	rc := &cobra.Command{
		Use:   "quickhull",
		Short: "QuickHull serial vs. parallel benchmark.",
		Long: `
Computes the convex hull of a point cloud serially and on two worker pool
flavors (shared and isolated), checks that all hulls agree and reports the
timings. Runs locally or as a TCP server/client pair.
`,
		SilenceUsage: true,
	}

	flags := rc.PersistentFlags()
	flags.StringVarP(&fv.configPath, "config", "c", "config.yaml", "Path to config file.")
	flags.StringVar(&fv.config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error.")
	flags.StringVar(&fv.config.LogFile, "log-file", "", "Log file (stderr when empty).")
	flags.IntVarP(&fv.config.Workers, "workers", "w", 0, "Default worker count.")
	flags.IntVar(&fv.config.MaxWorkers, "max-workers", 0, "Upper bound for any requested worker count (0 = 4 x NumCPU).")
	flags.IntVar(&fv.config.FanOut, "fan-out", 4, "Pending tasks per worker before submitting.")
	flags.IntVar(&fv.config.Repeats, "repeats", 1, "Timed repetitions per phase.")
	flags.StringVar(&fv.config.Host, "host", infrastructure.DefaultHost, "Server host.")
	flags.IntVarP(&fv.config.Port, "port", "p", infrastructure.DefaultPort, "Server port.")
	flags.IntVar(&fv.config.MaxMessageBytes, "max-message-bytes", infrastructure.DefaultMaxMessageBytes, "Largest accepted frame.")

	rc.AddCommand(newServeCommand(fv))
	rc.AddCommand(newClientCommand(fv))
	rc.AddCommand(newBenchCommand(fv))
	return rc
}

// load reads the config file, applies explicitly set flags and builds the
// logger from the result.
func (fv *flagValues) load(cmd *cobra.Command) (*domain.Config, *zap.Logger, error) {
	bootstrap := initLogger("info")
	defer bootstrap.Sync()

	// Чтение конфигурации
	config, err := infrastructure.NewYAMLConfigReader(bootstrap).ReadConfig(fv.configPath)
	if err != nil {
		return nil, nil, err
	}
	fv.apply(cmd, config)
	infrastructure.SetDefaults(config)

	// Обновляем уровень логирования
	return config, initLogger(config.LogLevel, config.LogFile), nil
}

func (fv *flagValues) apply(cmd *cobra.Command, config *domain.Config) {
	changed := cmd.Flags().Changed
	set := func(name string, fn func()) {
		if changed(name) {
			fn()
		}
	}
	src := &fv.config

	set("log-level", func() { config.LogLevel = src.LogLevel })
	set("log-file", func() { config.LogFile = src.LogFile })
	set("workers", func() { config.Workers = src.Workers })
	set("max-workers", func() { config.MaxWorkers = src.MaxWorkers })
	set("fan-out", func() { config.FanOut = src.FanOut })
	set("repeats", func() { config.Repeats = src.Repeats })
	set("host", func() { config.Host = src.Host })
	set("port", func() { config.Port = src.Port })
	set("max-message-bytes", func() { config.MaxMessageBytes = src.MaxMessageBytes })
	set("metrics-addr", func() { config.MetricsAddr = src.MetricsAddr })
	set("points", func() { config.Points = src.Points })
	set("seed", func() { config.Seed = src.Seed })
	set("min-coord", func() { config.MinCoord = src.MinCoord })
	set("max-coord", func() { config.MaxCoord = src.MaxCoord })
	set("input", func() { config.Input = src.Input })
	set("output", func() { config.Output = src.Output })
}

// initLogger initializes the logger with the specified level and log file name.
func initLogger(level string, logfileName ...string) *zap.Logger {
	config := zap.NewProductionConfig()

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.DisableCaller = false

	if len(logfileName) > 0 && logfileName[0] != "" {
		// файл с ротацией
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(config.EncoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   logfileName[0],
				MaxSize:    100,
				MaxAge:     7,
				MaxBackups: 3,
				LocalTime:  true,
			}),
			config.Level,
		)
		return zap.New(core, zap.AddCaller())
	}

	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
