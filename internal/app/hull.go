package app

import (
	"quickhull-bench/internal/domain"
	"quickhull-bench/pkg/geometry"
	"quickhull-bench/pkg/pool"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultFanOut = 4

// TaskPool runs whole hull sub-solves.
type TaskPool = pool.Pool[domain.Task, []domain.Point]

// HullSolver computes hulls serially or with a TaskPool.
type HullSolver struct {
	logger *zap.Logger
	fanOut int
}

func NewHullSolver(logger *zap.Logger, fanOut int) *HullSolver {
	if fanOut < 1 {
		fanOut = defaultFanOut
	}
	return &HullSolver{logger: logger, fanOut: fanOut}
}

func (s *HullSolver) Serial(points []domain.Point) []domain.Point {
	return geometry.Hull(points)
}

// Parallel splits the top levels of the recursion in the calling goroutine
// until there are at least Size()*fanOut independent tasks, then hands every
// remaining task to p as a complete sub-solve. The result is set-equal to
// Serial for any pool size.
func (s *HullSolver) Parallel(p TaskPool, points []domain.Point) ([]domain.Point, error) {
	if len(points) < 3 {
		return geometry.Dedup(points), nil
	}

	lo, hi, _ := geometry.Extremes(points)
	hull := []domain.Point{lo, hi}
	pending := geometry.RootTasks(points)
	width := p.Size() * s.fanOut

	rounds := 0
	for len(pending) > 0 && len(pending) < width {
		next := make([]domain.Task, 0, 2*len(pending))
		for _, t := range pending {
			split, ok := geometry.Partition(t)
			if !ok {
				continue
			}
			hull = append(hull, split.Farthest)
			// an empty child adds nothing: its endpoints are already in hull
			if len(split.Left.Points) > 0 {
				next = append(next, split.Left)
			}
			if len(split.Right.Points) > 0 {
				next = append(next, split.Right)
			}
		}
		pending = next
		rounds++
	}

	s.logger.Debug("Pre-expansion finished",
		zap.Int("rounds", rounds),
		zap.Int("tasks", len(pending)),
		zap.Int("width", width))

	futures := make([]*pool.Future[[]domain.Point], 0, len(pending))
	for _, t := range pending {
		f, err := p.Submit(geometry.SolveTask, t)
		if err != nil {
			return nil, errors.Wrap(err, "submit hull task")
		}
		futures = append(futures, f)
	}

	var firstErr error
	for _, f := range futures {
		sub, err := f.Await()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		hull = append(hull, sub...)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return geometry.Dedup(hull), nil
}
