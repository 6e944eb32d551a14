// Package geometry implements the QuickHull partition step and a serial hull
// solver on top of it.
//
// Every signed-distance computation goes through Orient, so serial and
// parallel callers produce bit-identical results for the same input.
package geometry

import (
	"quickhull-bench/internal/domain"

	"gonum.org/v1/gonum/spatial/r2"
)

// Orient returns the cross product of (b-a) and (p-a): positive when p is left
// of a->b, negative when right, zero when collinear. Its magnitude is twice
// the area of the triangle, proportional to p's distance from the line.
func Orient(a, b, p domain.Point) float64 {
	return r2.Cross(r2.Sub(r2.Vec(b), r2.Vec(a)), r2.Sub(r2.Vec(p), r2.Vec(a)))
}

// Side is the sign of Orient: +1, -1 or 0.
func Side(a, b, p domain.Point) int {
	v := Orient(a, b, p)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Extremes returns the lexicographically smallest and largest points by
// (X, Y). Breaking X ties on Y keeps lo and hi distinct for vertical input;
// exact duplicates keep the lowest index. ok is false for an empty input.
func Extremes(points []domain.Point) (lo, hi domain.Point, ok bool) {
	if len(points) == 0 {
		return lo, hi, false
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		if p.X < lo.X || (p.X == lo.X && p.Y < lo.Y) {
			lo = p
		}
		if p.X > hi.X || (p.X == hi.X && p.Y > hi.Y) {
			hi = p
		}
	}
	return lo, hi, true
}

// Dedup drops repeated coordinates, keeping first occurrences in order.
func Dedup(points []domain.Point) []domain.Point {
	seen := make(map[domain.Point]struct{}, len(points))
	out := make([]domain.Point, 0, len(points))
	for _, p := range points {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SameSet reports whether a and b hold the same coordinates, ignoring order
// and repeats.
func SameSet(a, b []domain.Point) bool {
	sa := make(map[domain.Point]struct{}, len(a))
	for _, p := range a {
		sa[p] = struct{}{}
	}
	sb := make(map[domain.Point]struct{}, len(b))
	for _, p := range b {
		if _, ok := sa[p]; !ok {
			return false
		}
		sb[p] = struct{}{}
	}
	return len(sa) == len(sb)
}
