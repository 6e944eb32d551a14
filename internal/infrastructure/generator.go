package infrastructure

import (
	"math"
	"time"

	"quickhull-bench/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// PointGenerator draws uniform random points inside a square.
type PointGenerator struct {
	logger *zap.Logger
	x, y   distuv.Uniform
}

// NewPointGenerator creates a generator over [min, max] x [min, max].
// A zero seed picks a time based one.
func NewPointGenerator(logger *zap.Logger, min, max float64, seed int64) *PointGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	src := rand.NewSource(uint64(seed))
	logger.Debug("Point generator ready",
		zap.Float64("min", min),
		zap.Float64("max", max),
		zap.Int64("seed", seed))

	return &PointGenerator{
		logger: logger,
		x:      distuv.Uniform{Min: min, Max: max, Src: src},
		y:      distuv.Uniform{Min: min, Max: max, Src: src},
	}
}

// Generate returns n points with coordinates rounded to two decimals.
func (g *PointGenerator) Generate(n int) []domain.Point {
	points := make([]domain.Point, n)
	for i := range points {
		points[i] = domain.Pt(round2(g.x.Rand()), round2(g.y.Rand()))
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
