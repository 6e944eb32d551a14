package infrastructure

import (
	"os"
	"runtime"

	"quickhull-bench/internal/domain"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 65432
	DefaultMaxMessageBytes = 256 << 20
	DefaultPoints          = 1_000_000
)

var _ domain.ConfigReader = (*YAMLConfigReader)(nil)

type YAMLConfigReader struct {
	logger *zap.Logger
}

func NewYAMLConfigReader(logger *zap.Logger) *YAMLConfigReader {
	return &YAMLConfigReader{logger: logger}
}

// ReadConfig reads path and fills in defaults. A missing file is not an
// error: the defaults alone are a valid configuration.
func (r *YAMLConfigReader) ReadConfig(path string) (*domain.Config, error) {
	var config domain.Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	case errors.Is(err, os.ErrNotExist):
		r.logger.Debug("Config file not found, using defaults", zap.String("path", path))
	default:
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	SetDefaults(&config)
	return &config, nil
}

// SetDefaults fills every zero field of config.
func SetDefaults(config *domain.Config) {
	if config.Workers <= 0 {
		config.Workers = max(1, runtime.NumCPU()-1)
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 4 * runtime.NumCPU()
	}
	config.MaxWorkers = max(config.MaxWorkers, config.Workers)
	if config.FanOut <= 0 {
		config.FanOut = 4
	}
	if config.Repeats <= 0 {
		config.Repeats = 1
	}
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.MaxMessageBytes <= 0 {
		config.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if config.Points <= 0 {
		config.Points = DefaultPoints
	}
	if config.MinCoord == 0 && config.MaxCoord == 0 {
		config.MaxCoord = 10_000
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}
