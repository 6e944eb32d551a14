package domain

import (
	"errors"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// Config представляет конфигурацию приложения
type Config struct {
	Workers         int     `yaml:"workers"`
	MaxWorkers      int     `yaml:"max_workers"`
	FanOut          int     `yaml:"fan_out"`
	Repeats         int     `yaml:"repeats"`
	Host            string  `yaml:"host"`
	Port            int     `yaml:"port"`
	MaxMessageBytes int     `yaml:"max_message_bytes"`
	Points          int     `yaml:"points"`
	Seed            int64   `yaml:"seed"`
	MinCoord        float64 `yaml:"min_coord"`
	MaxCoord        float64 `yaml:"max_coord"`
	LogLevel        string  `yaml:"log_level"`
	LogFile         string  `yaml:"log_file"`
	MetricsAddr     string  `yaml:"metrics_addr"`
	Input           string  `yaml:"input"`
	Output          string  `yaml:"output"`
}

// Addr returns the host:port pair the server listens on and the client dials.
func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Point is a 2D coordinate. It is a plain comparable value, so == and map keys
// compare exact coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return "<" + strconv.FormatFloat(p.X, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Y, 'f', -1, 64) + ">"
}

// MarshalJSON encodes the point as [x, y]. The shortest round-trip float
// representation keeps coordinates bit-exact across encode/decode.
func (p Point) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 48)
	b = append(b, '[')
	b = strconv.AppendFloat(b, p.X, 'g', -1, 64)
	b = append(b, ',')
	b = strconv.AppendFloat(b, p.Y, 'g', -1, 64)
	b = append(b, ']')
	return b, nil
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := jsoniter.Unmarshal(data, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return ErrInvalidDimension
	}
	p.X, p.Y = coords[0], coords[1]
	return nil
}

// Task asks for the hull points strictly on Side of the edge A->B among Points.
type Task struct {
	Points []Point `json:"points"`
	A      Point   `json:"a"`
	B      Point   `json:"b"`
	Side   int     `json:"side"`
}

// Split is the outcome of one partition step.
type Split struct {
	Farthest Point
	Left     Task
	Right    Task
}

// ResultBundle is what one benchmark request produces.
type ResultBundle struct {
	Hull          []Point    `json:"hull"`
	SerialTime    float64    `json:"serial_time"`
	ThreadedTime  float64    `json:"threaded_time"`
	ProcessesTime float64    `json:"processes_time"`
	Speedup       [2]float64 `json:"speedup"`

	Points  int `json:"-"`
	Workers int `json:"-"`
}

// BenchmarkRequest is the payload a client sends to the server.
type BenchmarkRequest struct {
	Points      []Point `json:"points"`
	ThreadCount uint    `json:"thread_count"`
}

var (
	ErrInvalidFileFormat    = errors.New("invalid file format")
	ErrInvalidDimension     = errors.New("point must have exactly 2 coordinates")
	ErrConsistencyViolation = errors.New("serial and parallel hulls disagree")
	ErrNoInput              = errors.New("no input available")
)
