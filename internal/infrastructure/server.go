package infrastructure

import (
	"context"
	"net"
	"time"

	"quickhull-bench/internal/domain"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TCPServer answers framed benchmark requests, one goroutine per connection.
type TCPServer struct {
	logger  *zap.Logger
	config  *domain.Config
	service domain.BenchmarkService
}

func NewTCPServer(logger *zap.Logger, config *domain.Config, service domain.BenchmarkService) *TCPServer {
	return &TCPServer{
		logger:  logger,
		config:  config,
		service: service,
	}
}

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *TCPServer) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Addr())
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.config.Addr())
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled, then closes ln and
// waits for in-flight connections.
func (s *TCPServer) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	s.logger.Info("Server listening", zap.String("addr", ln.Addr().String()))

	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})

	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return errors.Wrap(err, "accept")
			}
			g.Go(func() error {
				s.handle(ctx, conn)
				return nil
			})
		}
	})

	err := g.Wait()
	s.logger.Info("Server stopped")
	return err
}

// handle serves a single request. Any failure closes the connection without
// a response.
func (s *TCPServer) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	remote := conn.RemoteAddr().String()
	logger := s.logger.With(zap.String("remote", remote))

	var req domain.BenchmarkRequest
	if err := ReadMessage(conn, &req, s.config.MaxMessageBytes); err != nil {
		logger.Warn("Failed to read request", zap.Error(err))
		return
	}

	logger.Info("Processing request",
		zap.Int("points", len(req.Points)),
		zap.Uint("threads", req.ThreadCount))
	start := time.Now()

	res, err := s.service.Run(req.Points, int(req.ThreadCount))
	if err != nil {
		logger.Error("Benchmark failed", zap.Error(err))
		return
	}

	if err := WriteMessage(conn, res); err != nil {
		logger.Warn("Failed to write response", zap.Error(err))
		return
	}
	logger.Info("Request done",
		zap.Int("hull", len(res.Hull)),
		zap.Duration("elapsed", time.Since(start)))
}
