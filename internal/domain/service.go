package domain

// BenchmarkService runs one benchmark request end to end
type BenchmarkService interface {
	Run(points []Point, workers int) (*ResultBundle, error)
}
