package geometry

import (
	"quickhull-bench/internal/domain"
)

// frame is one entry of the solver stack: either a task still to partition or
// a hull point waiting to be emitted in order.
type frame struct {
	task domain.Task
	emit bool
	p    domain.Point
}

// Solve returns the hull points of t in order: the hull of the left split, the
// farthest point, then the hull of the right split. A terminal task yields its
// own endpoints, so the output repeats points and callers Dedup it.
func Solve(t domain.Task) []domain.Point {
	var out []domain.Point
	stack := []frame{{task: t}}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if fr.emit {
			out = append(out, fr.p)
			continue
		}
		split, ok := Partition(fr.task)
		if !ok {
			out = append(out, fr.task.A, fr.task.B)
			continue
		}
		// LIFO: pushed right first so left comes out first
		stack = append(stack,
			frame{task: split.Right},
			frame{emit: true, p: split.Farthest},
			frame{task: split.Left},
		)
	}
	return out
}

// SolveTask adapts Solve to the pool's work signature.
func SolveTask(t domain.Task) ([]domain.Point, error) {
	return Solve(t), nil
}

// RootTasks returns the two top-level tasks over the baseline from the min-X
// to the max-X point, one per side.
func RootTasks(points []domain.Point) []domain.Task {
	lo, hi, ok := Extremes(points)
	if !ok {
		return nil
	}
	return []domain.Task{
		{Points: points, A: lo, B: hi, Side: 1},
		{Points: points, A: lo, B: hi, Side: -1},
	}
}

// Hull computes the convex hull of points serially. Fewer than three points
// are returned as they are, minus repeats; collinear input yields its two
// extremes.
func Hull(points []domain.Point) []domain.Point {
	if len(points) < 3 {
		return Dedup(points)
	}

	var hull []domain.Point
	for _, t := range RootTasks(points) {
		hull = append(hull, Solve(t)...)
	}
	return Dedup(hull)
}
