package geometry

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickhull-bench/internal/domain"
)

var pt = domain.Pt

func TestOrientAndSide(t *testing.T) {
	a, b := pt(0, 0), pt(10, 0)
	assert.Equal(t, 100.0, Orient(a, b, pt(3, 10)))
	assert.Equal(t, 1, Side(a, b, pt(3, 10)))
	assert.Equal(t, -1, Side(a, b, pt(3, -10)))
	assert.Equal(t, 0, Side(a, b, pt(20, 0)))
}

func TestExtremesBreaksXTiesOnY(t *testing.T) {
	lo, hi, ok := Extremes([]domain.Point{pt(0, 5), pt(3, 3), pt(0, 1), pt(3, 9)})
	require.True(t, ok)
	assert.Equal(t, pt(0, 1), lo)
	assert.Equal(t, pt(3, 9), hi)

	lo, hi, ok = Extremes([]domain.Point{pt(0, 1), pt(0, 0), pt(0, 2)})
	require.True(t, ok)
	assert.Equal(t, pt(0, 0), lo)
	assert.Equal(t, pt(0, 2), hi)

	_, _, ok = Extremes(nil)
	assert.False(t, ok)
}

func TestPartitionNone(t *testing.T) {
	task := domain.Task{
		Points: []domain.Point{pt(1, -1), pt(5, 0), pt(9, -3)},
		A:      pt(0, 0),
		B:      pt(10, 0),
		Side:   1,
	}
	_, ok := Partition(task)
	assert.False(t, ok)
}

func TestPartitionTieBreaksOnLowestIndex(t *testing.T) {
	a, b := pt(0, 0), pt(10, 0)

	split, ok := Partition(domain.Task{Points: []domain.Point{pt(1, 5), pt(9, 5), pt(5, 1)}, A: a, B: b, Side: 1})
	require.True(t, ok)
	assert.Equal(t, pt(1, 5), split.Farthest)
	assert.Empty(t, split.Left.Points)
	assert.Equal(t, []domain.Point{pt(9, 5)}, split.Right.Points)
	assert.Equal(t, domain.Task{Points: split.Right.Points, A: pt(1, 5), B: b, Side: 1}, split.Right)

	split, ok = Partition(domain.Task{Points: []domain.Point{pt(9, 5), pt(1, 5), pt(5, 1)}, A: a, B: b, Side: 1})
	require.True(t, ok)
	assert.Equal(t, pt(9, 5), split.Farthest)
	assert.Equal(t, []domain.Point{pt(1, 5)}, split.Left.Points)
	assert.Empty(t, split.Right.Points)
}

func TestPartitionLowerSide(t *testing.T) {
	split, ok := Partition(domain.Task{
		Points: []domain.Point{pt(5, 5), pt(2, -4), pt(5, -8), pt(9, -3), pt(5, -2)},
		A:      pt(0, 0),
		B:      pt(10, 0),
		Side:   -1,
	})
	require.True(t, ok)
	assert.Equal(t, pt(5, -8), split.Farthest)
	assert.Equal(t, []domain.Point{pt(2, -4)}, split.Left.Points)
	assert.Equal(t, []domain.Point{pt(9, -3)}, split.Right.Points)
}

func TestPartitionShrinksAndTerminates(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	points := randomPoints(rng, 2000)

	pending := RootTasks(points)
	steps := 0
	for len(pending) > 0 {
		task := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		split, ok := Partition(task)
		steps++
		require.Less(t, steps, 2*len(points), "partition did not terminate")
		if !ok {
			continue
		}
		require.Less(t, len(split.Left.Points)+len(split.Right.Points), len(task.Points))
		assert.NotContains(t, split.Left.Points, split.Farthest)
		assert.NotContains(t, split.Right.Points, split.Farthest)
		pending = append(pending, split.Left, split.Right)
	}
}

func TestHullSquare(t *testing.T) {
	points := []domain.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10), pt(5, 5)}
	hull := Hull(points)
	assert.ElementsMatch(t, []domain.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}, hull)
}

func TestHullDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []domain.Point
		want   []domain.Point
	}{
		{"empty", nil, []domain.Point{}},
		{"single", []domain.Point{pt(1, 2)}, []domain.Point{pt(1, 2)}},
		{"two", []domain.Point{pt(1, 2), pt(3, 4)}, []domain.Point{pt(1, 2), pt(3, 4)}},
		{"two equal", []domain.Point{pt(1, 2), pt(1, 2)}, []domain.Point{pt(1, 2)}},
		{"collinear", []domain.Point{pt(0, 0), pt(1, 1), pt(2, 2)}, []domain.Point{pt(0, 0), pt(2, 2)}},
		{"collinear shuffled", []domain.Point{pt(1, 1), pt(2, 2), pt(0, 0), pt(1.5, 1.5)}, []domain.Point{pt(0, 0), pt(2, 2)}},
		{"all equal", []domain.Point{pt(3, 3), pt(3, 3), pt(3, 3)}, []domain.Point{pt(3, 3)}},
		{"vertical", []domain.Point{pt(0, 0), pt(0, 1), pt(0, 2)}, []domain.Point{pt(0, 0), pt(0, 2)}},
		{"vertical middle first", []domain.Point{pt(0, 1), pt(0, 0), pt(0, 2)}, []domain.Point{pt(0, 0), pt(0, 2)}},
		{"horizontal", []domain.Point{pt(5, 7), pt(1, 7), pt(3, 7), pt(9, 7)}, []domain.Point{pt(1, 7), pt(9, 7)}},
		{"duplicated corners", []domain.Point{pt(0, 0), pt(4, 0), pt(0, 0), pt(2, 3), pt(4, 0), pt(2, 1)}, []domain.Point{pt(0, 0), pt(4, 0), pt(2, 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, Hull(tt.points))
		})
	}
}

func TestHullMatchesMonotoneChain(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{3, 10, 100, 5000} {
		points := randomPoints(rng, n)
		assert.ElementsMatch(t, monotoneChain(points), Hull(points), "n=%d", n)
	}
}

func TestSolveOutputsLeftFarthestRight(t *testing.T) {
	task := domain.Task{
		Points: []domain.Point{pt(5, 10), pt(2, 6), pt(8, 6)},
		A:      pt(0, 0),
		B:      pt(10, 0),
		Side:   1,
	}
	got := Dedup(Solve(task))
	assert.Equal(t, []domain.Point{pt(0, 0), pt(2, 6), pt(5, 10), pt(8, 6), pt(10, 0)}, got)
}

func TestDedupAndSameSet(t *testing.T) {
	in := []domain.Point{pt(1, 1), pt(2, 2), pt(1, 1), pt(3, 3), pt(2, 2)}
	assert.Equal(t, []domain.Point{pt(1, 1), pt(2, 2), pt(3, 3)}, Dedup(in))

	assert.True(t, SameSet(in, []domain.Point{pt(3, 3), pt(2, 2), pt(1, 1)}))
	assert.False(t, SameSet(in, []domain.Point{pt(3, 3), pt(2, 2)}))
	assert.False(t, SameSet([]domain.Point{pt(1, 1)}, []domain.Point{pt(1, 1), pt(4, 4)}))
	assert.True(t, SameSet(nil, nil))
}

func randomPoints(rng *rand.Rand, n int) []domain.Point {
	points := make([]domain.Point, n)
	for i := range points {
		points[i] = pt(rng.Float64()*10000, rng.Float64()*10000)
	}
	return points
}

// monotoneChain is Andrew's algorithm, used as an independent reference.
// Collinear boundary points are excluded, same as Hull.
func monotoneChain(in []domain.Point) []domain.Point {
	points := append([]domain.Point(nil), in...)
	sort.Slice(points, func(i, j int) bool {
		if points[i].X == points[j].X {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})
	cross := func(o, a, b domain.Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower, upper []domain.Point
	for _, p := range points {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}
