package app

import (
	"runtime"
	"time"

	"quickhull-bench/internal/domain"
	"quickhull-bench/pkg/geometry"
	"quickhull-bench/pkg/pool"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

var _ domain.BenchmarkService = (*Benchmarker)(nil)

// HullComputer is what the benchmark times.
type HullComputer interface {
	Serial(points []domain.Point) []domain.Point
	Parallel(p TaskPool, points []domain.Point) ([]domain.Point, error)
}

// Benchmarker runs the serial solver and both pool flavors on the same input
// and cross-checks their hulls.
type Benchmarker struct {
	logger  *zap.Logger
	config  *domain.Config
	hulls   HullComputer
	metrics *pool.Metrics
}

// NewBenchmarker creates a Benchmarker. metrics may be nil.
func NewBenchmarker(logger *zap.Logger, config *domain.Config, hulls HullComputer, metrics *pool.Metrics) *Benchmarker {
	return &Benchmarker{
		logger:  logger,
		config:  config,
		hulls:   hulls,
		metrics: metrics,
	}
}

// Run benchmarks points with the given number of workers (config default
// when below 1, capped at MaxWorkers). Every pool is created and shut down
// inside the call. Hulls that disagree fail the whole run with
// ErrConsistencyViolation.
func (b *Benchmarker) Run(points []domain.Point, workers int) (*domain.ResultBundle, error) {
	if workers < 1 {
		workers = max(1, b.config.Workers)
	}
	if limit := b.maxWorkers(); workers > limit {
		b.logger.Warn("Worker count capped",
			zap.Int("requested", workers),
			zap.Int("max_workers", limit))
		workers = limit
	}
	repeats := max(1, b.config.Repeats)

	b.logger.Info("Starting benchmark",
		zap.Int("points", len(points)),
		zap.Int("workers", workers),
		zap.Int("repeats", repeats))

	var serial []domain.Point
	serialTime, err := b.measure("serial", repeats, func() error {
		serial = b.hulls.Serial(points)
		return nil
	})
	if err != nil {
		return nil, err
	}

	threaded, threadedTime, err := b.runPool(pool.Shared, points, workers, repeats)
	if err != nil {
		return nil, err
	}

	isolated, isolatedTime, err := b.runPool(pool.Isolated, points, workers, repeats)
	if err != nil {
		return nil, err
	}

	if !geometry.SameSet(serial, threaded) {
		return nil, errors.Wrapf(domain.ErrConsistencyViolation,
			"serial hull has %d points, shared pool hull has %d", len(serial), len(threaded))
	}
	if !geometry.SameSet(serial, isolated) {
		return nil, errors.Wrapf(domain.ErrConsistencyViolation,
			"serial hull has %d points, isolated pool hull has %d", len(serial), len(isolated))
	}

	bundle := &domain.ResultBundle{
		Hull:          threaded,
		SerialTime:    serialTime,
		ThreadedTime:  threadedTime,
		ProcessesTime: isolatedTime,
		Speedup:       [2]float64{speedup(serialTime, threadedTime), speedup(serialTime, isolatedTime)},
		Points:        len(points),
		Workers:       workers,
	}

	b.logger.Info("Benchmark completed",
		zap.Int("hull", len(bundle.Hull)),
		zap.Float64("serial_s", bundle.SerialTime),
		zap.Float64("shared_s", bundle.ThreadedTime),
		zap.Float64("isolated_s", bundle.ProcessesTime),
		zap.Float64s("speedup", bundle.Speedup[:]))
	return bundle, nil
}

// runPool times one pool flavor, including pool start and shutdown.
func (b *Benchmarker) runPool(mode pool.Mode, points []domain.Point, workers, repeats int) ([]domain.Point, float64, error) {
	var hull []domain.Point
	elapsed, err := b.measure(string(mode), repeats, func() error {
		p, err := pool.New[domain.Task, []domain.Point](workers,
			pool.WithMode(mode),
			pool.WithLogger(b.logger),
			pool.WithMetrics(b.metrics))
		if err != nil {
			return err
		}
		defer p.Shutdown()

		hull, err = b.hulls.Parallel(p, points)
		return err
	})
	if err != nil {
		return nil, 0, errors.Wrapf(err, "%s pool", mode)
	}
	return hull, elapsed, nil
}

// measure runs fn repeats times and returns the mean wall time in seconds.
func (b *Benchmarker) measure(phase string, repeats int, fn func() error) (float64, error) {
	samples := make([]float64, 0, repeats)
	for range repeats {
		start := time.Now()
		if err := fn(); err != nil {
			return 0, err
		}
		samples = append(samples, time.Since(start).Seconds())
	}

	mean := stat.Mean(samples, nil)
	fields := []zap.Field{zap.String("phase", phase), zap.Float64("mean_s", mean)}
	if len(samples) > 1 {
		fields = append(fields, zap.Float64("stddev_s", stat.StdDev(samples, nil)))
	}
	b.logger.Debug("Phase timed", fields...)
	return mean, nil
}

// maxWorkers is the largest pool a single run may start.
func (b *Benchmarker) maxWorkers() int {
	if b.config.MaxWorkers > 0 {
		return max(b.config.MaxWorkers, b.config.Workers)
	}
	return max(4*runtime.NumCPU(), b.config.Workers)
}

func speedup(serial, parallel float64) float64 {
	if parallel > 0.0001 {
		return serial / parallel
	}
	return 1.0
}
