package infrastructure

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"quickhull-bench/internal/domain"

	"go.uber.org/zap"
)

var _ domain.PointWriter = (*TXTFileWriter)(nil)

type TXTFileWriter struct {
	logger *zap.Logger
}

func NewTXTFileWriter(logger *zap.Logger) *TXTFileWriter {
	return &TXTFileWriter{logger: logger}
}

// WritePoints writes one "x y" pair per line in the format ReadPoints reads.
func (w *TXTFileWriter) WritePoints(filename string, points []domain.Point) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "# %d points\n", len(points))
	for _, p := range points {
		fmt.Fprintf(writer, "%s\t%s\n",
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64))
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	w.logger.Debug("Points written", zap.String("file", filename), zap.Int("count", len(points)))
	return nil
}
