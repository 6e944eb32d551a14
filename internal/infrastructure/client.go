package infrastructure

import (
	"context"
	"net"
	"time"

	"quickhull-bench/internal/domain"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type TCPClient struct {
	logger   *zap.Logger
	addr     string
	maxBytes int
	dialer   net.Dialer
}

func NewTCPClient(logger *zap.Logger, addr string, maxBytes int) *TCPClient {
	return &TCPClient{
		logger:   logger,
		addr:     addr,
		maxBytes: maxBytes,
	}
}

// Benchmark sends points to the server and waits for its result. The returned
// duration is the full round trip as seen by the client.
func (c *TCPClient) Benchmark(ctx context.Context, points []domain.Point, threads uint) (*domain.ResultBundle, time.Duration, error) {
	start := time.Now()

	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "dial %s", c.addr)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c.logger.Debug("Sending request",
		zap.String("addr", c.addr),
		zap.Int("points", len(points)),
		zap.Uint("threads", threads))

	req := domain.BenchmarkRequest{Points: points, ThreadCount: threads}
	if err := WriteMessage(conn, &req); err != nil {
		return nil, 0, errors.Wrap(err, "send request")
	}

	var res domain.ResultBundle
	if err := ReadMessage(conn, &res, c.maxBytes); err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, errors.Wrap(err, "receive response")
	}
	res.Points = len(points)
	res.Workers = int(threads)

	return &res, time.Since(start), nil
}
