package infrastructure

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"quickhull-bench/internal/domain"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var _ domain.PointReader = (*TXTFileReader)(nil)

type TXTFileReader struct {
	logger *zap.Logger
}

func NewTXTFileReader(logger *zap.Logger) *TXTFileReader {
	return &TXTFileReader{logger: logger}
}

// ReadPoints reads one "x y" pair per line. Blank lines and lines starting
// with '#' are skipped.
func (r *TXTFileReader) ReadPoints(filename string) ([]domain.Point, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var points []domain.Point
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, errors.Wrapf(domain.ErrInvalidDimension, "%s:%d", filename, line)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrInvalidFileFormat, "%s:%d: %v", filename, line, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrInvalidFileFormat, "%s:%d: %v", filename, line, err)
		}
		points = append(points, domain.Pt(x, y))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(points) == 0 {
		return nil, errors.Wrap(domain.ErrNoInput, filename)
	}
	r.logger.Debug("Points read", zap.String("file", filename), zap.Int("count", len(points)))
	return points, nil
}
