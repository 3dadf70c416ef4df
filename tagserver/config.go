package tagserver

import (
	"fmt"
	"time"

	"github.com/arloliu/go-tagwire/logger"
	"github.com/arloliu/go-tagwire/transport"
)

const (
	// DefaultMaxConns is the default limit of concurrently served connections.
	DefaultMaxConns = 64
	// DefaultCloseTimeout bounds how long Close waits for connections to drain.
	DefaultCloseTimeout = 3 * time.Second
)

// Range limits of the server options.
const (
	MinMaxConns = 1
	MaxMaxConns = 65535

	MinCloseTimeout = 0
	MaxCloseTimeout = time.Minute
)

// Config holds the server settings.
type Config struct {
	maxConns     int
	closeTimeout time.Duration
	logger       logger.Logger

	connOpts  []transport.ConnOption
	transport *transport.Config
}

// NewConfig creates a server configuration.
func NewConfig(opts ...ServerOption) (*Config, error) {
	cfg := &Config{
		maxConns:     DefaultMaxConns,
		closeTimeout: DefaultCloseTimeout,
		logger:       logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	tcfg, err := transport.NewConfig(append(cfg.connOpts, transport.WithLogger(cfg.logger))...)
	if err != nil {
		return nil, err
	}
	cfg.transport = tcfg

	return cfg, nil
}

// MaxConns returns the limit of concurrently served connections.
func (cfg *Config) MaxConns() int { return cfg.maxConns }

// CloseTimeout returns the bound of Close.
func (cfg *Config) CloseTimeout() time.Duration { return cfg.closeTimeout }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Transport returns the configuration shared by every served connection.
func (cfg *Config) Transport() *transport.Config { return cfg.transport }

// Metrics returns the frame counters of every served connection.
func (cfg *Config) Metrics() *transport.Metrics { return cfg.transport.Metrics() }

// ServerOption is a functional option for configuring a Config.
type ServerOption interface {
	apply(*Config) error
}

type serverOptFunc func(*Config) error

func (f serverOptFunc) apply(cfg *Config) error { return f(cfg) }

// WithMaxConns limits the number of concurrently served connections.
// Connections accepted beyond the limit are closed immediately.
func WithMaxConns(n int) ServerOption {
	return serverOptFunc(func(cfg *Config) error {
		if n < MinMaxConns || n > MaxMaxConns {
			return fmt.Errorf("max connections %d out of range [%d, %d]", n, MinMaxConns, MaxMaxConns)
		}
		cfg.maxConns = n

		return nil
	})
}

// WithCloseTimeout bounds how long Close waits for connections to finish their
// current request before closing them forcibly.
func WithCloseTimeout(d time.Duration) ServerOption {
	return serverOptFunc(func(cfg *Config) error {
		if d < MinCloseTimeout || d > MaxCloseTimeout {
			return fmt.Errorf("close timeout %v out of range [%v, %v]", d, MinCloseTimeout, MaxCloseTimeout)
		}
		cfg.closeTimeout = d

		return nil
	})
}

// WithLogger sets the logger of the server and its connections.
func WithLogger(l logger.Logger) ServerOption {
	return serverOptFunc(func(cfg *Config) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		cfg.logger = l

		return nil
	})
}

// WithTimeout sets the receive and send timeout of served connections.
func WithTimeout(d time.Duration) ServerOption {
	return withConnOption(transport.WithTimeout(d))
}

// WithTrace enables hex dumps of every frame at debug level.
func WithTrace(enabled bool) ServerOption {
	return withConnOption(transport.WithTrace(enabled))
}

// WithMetrics sets the counters updated by served connections.
func WithMetrics(m *transport.Metrics) ServerOption {
	return withConnOption(transport.WithMetrics(m))
}

func withConnOption(opt transport.ConnOption) ServerOption {
	return serverOptFunc(func(cfg *Config) error {
		cfg.connOpts = append(cfg.connOpts, opt)
		return nil
	})
}
