package app

import (
	"math/rand"
	"runtime"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"quickhull-bench/internal/domain"
	"quickhull-bench/pkg/geometry"
	"quickhull-bench/pkg/pool"
)

func TestBenchmarkRun(t *testing.T) {
	config := &domain.Config{Workers: 2, Repeats: 2}
	reg := prometheus.NewRegistry()
	metrics := pool.NewMetrics(reg, "test")
	b := NewBenchmarker(zaptest.NewLogger(t), config, NewHullSolver(zap.NewNop(), 4), metrics)

	points := randomPoints(rand.New(rand.NewSource(9)), 20000)
	res, err := b.Run(points, 4)
	require.NoError(t, err)

	assert.True(t, geometry.SameSet(geometry.Hull(points), res.Hull))
	assert.Equal(t, len(points), res.Points)
	assert.Equal(t, 4, res.Workers)
	assert.Greater(t, res.SerialTime, 0.0)
	assert.Greater(t, res.ThreadedTime, 0.0)
	assert.Greater(t, res.ProcessesTime, 0.0)
	assert.Greater(t, res.Speedup[0], 0.0)
	assert.Greater(t, res.Speedup[1], 0.0)

	// both flavors ran through their own pools
	assert.Positive(t, testutil.ToFloat64(metrics.TasksCompleted.WithLabelValues("shared")))
	assert.Positive(t, testutil.ToFloat64(metrics.TasksCompleted.WithLabelValues("isolated")))
	assert.Zero(t, testutil.ToFloat64(metrics.TasksFailed.WithLabelValues("shared")))
}

func TestBenchmarkScenarios(t *testing.T) {
	b := NewBenchmarker(zap.NewNop(), &domain.Config{Workers: 1}, NewHullSolver(zap.NewNop(), 4), nil)

	tests := []struct {
		name   string
		points []domain.Point
		want   []domain.Point
	}{
		{
			name:   "square",
			points: []domain.Point{domain.Pt(0, 0), domain.Pt(10, 0), domain.Pt(10, 10), domain.Pt(0, 10), domain.Pt(5, 5)},
			want:   []domain.Point{domain.Pt(0, 0), domain.Pt(10, 0), domain.Pt(10, 10), domain.Pt(0, 10)},
		},
		{
			name:   "collinear",
			points: []domain.Point{domain.Pt(0, 0), domain.Pt(1, 1), domain.Pt(2, 2)},
			want:   []domain.Point{domain.Pt(0, 0), domain.Pt(2, 2)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, workers := range poolSizes {
				res, err := b.Run(tt.points, workers)
				require.NoError(t, err)
				assert.ElementsMatch(t, tt.want, res.Hull)
			}
		})
	}
}

func TestBenchmarkDefaultsWorkers(t *testing.T) {
	b := NewBenchmarker(zap.NewNop(), &domain.Config{Workers: 3}, NewHullSolver(zap.NewNop(), 4), nil)
	res, err := b.Run([]domain.Point{domain.Pt(0, 0), domain.Pt(1, 0), domain.Pt(0, 1)}, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Workers)
}

func TestBenchmarkCapsWorkers(t *testing.T) {
	b := NewBenchmarker(zap.NewNop(), &domain.Config{Workers: 2, MaxWorkers: 3}, NewHullSolver(zap.NewNop(), 4), nil)
	points := []domain.Point{domain.Pt(0, 0), domain.Pt(4, 0), domain.Pt(0, 4), domain.Pt(1, 1)}

	res, err := b.Run(points, int(uint(1<<40)))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Workers)
	assert.ElementsMatch(t, []domain.Point{domain.Pt(0, 0), domain.Pt(4, 0), domain.Pt(0, 4)}, res.Hull)

	// without a configured cap the limit still applies
	b = NewBenchmarker(zap.NewNop(), &domain.Config{Workers: 1}, NewHullSolver(zap.NewNop(), 4), nil)
	res, err = b.Run(points, 1<<30)
	require.NoError(t, err)
	assert.Equal(t, 4*runtime.NumCPU(), res.Workers)
}

// skewedHulls returns a wrong parallel hull for isolated pools only.
type skewedHulls struct {
	*HullSolver
}

func (s skewedHulls) Parallel(p TaskPool, points []domain.Point) ([]domain.Point, error) {
	hull, err := s.HullSolver.Parallel(p, points)
	if err != nil || p.Mode() != pool.Isolated {
		return hull, err
	}
	return hull[1:], nil
}

func TestBenchmarkConsistencyViolation(t *testing.T) {
	b := NewBenchmarker(zap.NewNop(), &domain.Config{Workers: 2}, skewedHulls{NewHullSolver(zap.NewNop(), 4)}, nil)

	res, err := b.Run(randomPoints(rand.New(rand.NewSource(5)), 1000), 2)
	require.ErrorIs(t, err, domain.ErrConsistencyViolation)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "isolated")
}

func TestSpeedup(t *testing.T) {
	assert.Equal(t, 2.0, speedup(1.0, 0.5))
	assert.Equal(t, 1.0, speedup(1.0, 0.00001))
}
