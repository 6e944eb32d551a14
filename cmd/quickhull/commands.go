package main

import (
	"context"
	"net/http"
	"time"

	"quickhull-bench/internal/app"
	"quickhull-bench/internal/domain"
	"quickhull-bench/internal/infrastructure"
	"quickhull-bench/pkg/pool"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(fv *flagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve benchmark requests over TCP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := fv.load(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			benchmarker := newBenchmarker(logger, config, pool.NewMetrics(registry, "quickhull"))
			server := infrastructure.NewTCPServer(logger, config, benchmarker)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return server.ListenAndServe(ctx)
			})

			if config.MetricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
				srv := &http.Server{Addr: config.MetricsAddr, Handler: mux}

				g.Go(func() error {
					logger.Info("Metrics listening", zap.String("addr", config.MetricsAddr))
					if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						return errors.Wrap(err, "metrics server")
					}
					return nil
				})
				g.Go(func() error {
					<-ctx.Done()
					return srv.Shutdown(context.Background())
				})
			}

			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&fv.config.MetricsAddr, "metrics-addr", "", "Address for the Prometheus /metrics endpoint (disabled when empty).")
	return cmd
}

func newClientCommand(fv *flagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Send a point cloud to a running server and print the report.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := fv.load(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			points, err := loadPoints(logger, config)
			if err != nil {
				return err
			}

			client := infrastructure.NewTCPClient(logger, config.Addr(), config.MaxMessageBytes)
			res, roundTrip, err := client.Benchmark(cmd.Context(), points, fv.threads)
			if err != nil {
				return err
			}
			logger.Info("Result received",
				zap.Int("hull", len(res.Hull)),
				zap.Duration("round_trip", roundTrip))

			return report(cmd, logger, config, res, roundTrip)
		},
	}
	addPointFlags(cmd.Flags(), fv)
	return cmd
}

func newBenchCommand(fv *flagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the benchmark in-process without a server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := fv.load(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			points, err := loadPoints(logger, config)
			if err != nil {
				return err
			}

			res, err := newBenchmarker(logger, config, nil).Run(points, int(fv.threads))
			if err != nil {
				return err
			}
			return report(cmd, logger, config, res, 0)
		},
	}
	addPointFlags(cmd.Flags(), fv)
	return cmd
}

func addPointFlags(flags *pflag.FlagSet, fv *flagValues) {
	flags.UintVarP(&fv.threads, "threads", "t", 0, "Worker count for this run (0 = configured default).")
	flags.IntVarP(&fv.config.Points, "points", "n", infrastructure.DefaultPoints, "Number of random points to generate.")
	flags.Int64Var(&fv.config.Seed, "seed", 0, "Random seed (0 = time based).")
	flags.Float64Var(&fv.config.MinCoord, "min-coord", 0, "Lower coordinate bound.")
	flags.Float64Var(&fv.config.MaxCoord, "max-coord", 10_000, "Upper coordinate bound.")
	flags.StringVarP(&fv.config.Input, "input", "i", "", "Read points from this file instead of generating them.")
	flags.StringVarP(&fv.config.Output, "output", "o", "", "Write the hull to this file.")
}

func newBenchmarker(logger *zap.Logger, config *domain.Config, metrics *pool.Metrics) *app.Benchmarker {
	return app.NewBenchmarker(logger, config, app.NewHullSolver(logger, config.FanOut), metrics)
}

func loadPoints(logger *zap.Logger, config *domain.Config) ([]domain.Point, error) {
	if config.Input != "" {
		return infrastructure.NewTXTFileReader(logger).ReadPoints(config.Input)
	}
	gen := infrastructure.NewPointGenerator(logger, config.MinCoord, config.MaxCoord, config.Seed)
	return gen.Generate(config.Points), nil
}

func report(cmd *cobra.Command, logger *zap.Logger, config *domain.Config, res *domain.ResultBundle, roundTrip time.Duration) error {
	if err := infrastructure.NewReportWriter(cmd.OutOrStdout()).Write(res, roundTrip); err != nil {
		return err
	}
	if config.Output == "" {
		return nil
	}
	if err := infrastructure.NewTXTFileWriter(logger).WritePoints(config.Output, res.Hull); err != nil {
		return errors.Wrapf(err, "write hull to %s", config.Output)
	}
	logger.Info("Hull written", zap.String("file", config.Output))
	return nil
}
