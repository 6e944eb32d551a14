package geometry

import (
	"quickhull-bench/internal/domain"
)

// Partition runs one QuickHull step on t.
//
// The farthest point on t.Side of A->B is a hull vertex. Among equally far
// points the one with the lowest index in t.Points wins; splits keep input
// order, so that is the lowest original index as well. The remaining
// candidates are split into those strictly outside A->F and those strictly
// outside F->B; both keep t.Side since F lies on that side of A->B. Points on
// or inside the triangle A,F,B are dropped.
//
// ok is false when no point lies strictly on t.Side, meaning A and B are
// adjacent hull vertices.
func Partition(t domain.Task) (split domain.Split, ok bool) {
	side := float64(t.Side)

	far := -1
	best := 0.0
	ncand := 0
	for i, p := range t.Points {
		d := Orient(t.A, t.B, p) * side
		if d <= 0 {
			continue
		}
		ncand++
		if d > best {
			far, best = i, d
		}
	}
	if far < 0 {
		return split, false
	}

	f := t.Points[far]
	left := make([]domain.Point, 0, ncand/2)
	right := make([]domain.Point, 0, ncand/2)
	for i, p := range t.Points {
		if i == far || Orient(t.A, t.B, p)*side <= 0 {
			continue
		}
		if Orient(t.A, f, p)*side > 0 {
			left = append(left, p)
		} else if Orient(f, t.B, p)*side > 0 {
			right = append(right, p)
		}
	}

	return domain.Split{
		Farthest: f,
		Left:     domain.Task{Points: left, A: t.A, B: f, Side: t.Side},
		Right:    domain.Task{Points: right, A: f, B: t.B, Side: t.Side},
	}, true
}
