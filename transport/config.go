package transport

import (
	"fmt"
	"time"

	"github.com/arloliu/go-tagwire/logger"
)

const (
	// DefaultTimeout bounds every readiness wait of Receive and Send.
	DefaultTimeout = 15 * time.Second
	// DefaultConnectTimeout bounds Dial.
	DefaultConnectTimeout = 3 * time.Second
)

// Timeout range limits.
const (
	MinTimeout = 10 * time.Millisecond
	MaxTimeout = 10 * time.Minute

	MinConnectTimeout = 10 * time.Millisecond
	MaxConnectTimeout = time.Minute
)

// Config holds the settings shared by every Conn created from it.
// A Config is immutable once built and may be shared across goroutines.
type Config struct {
	timeout        time.Duration
	connectTimeout time.Duration

	// trace logs a hex dump of every frame at debug level.
	trace bool

	logger  logger.Logger
	metrics *Metrics
}

// NewConfig creates a transport configuration.
// opts are applied in order; see the With* functions.
func NewConfig(opts ...ConnOption) (*Config, error) {
	cfg := &Config{
		timeout:        DefaultTimeout,
		connectTimeout: DefaultConnectTimeout,
		logger:         logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.metrics == nil {
		cfg.metrics = &Metrics{}
	}

	return cfg, nil
}

// Timeout returns the bound of a single readiness wait.
func (cfg *Config) Timeout() time.Duration { return cfg.timeout }

// ConnectTimeout returns the bound of Dial.
func (cfg *Config) ConnectTimeout() time.Duration { return cfg.connectTimeout }

// Trace reports whether frame dumps are enabled.
func (cfg *Config) Trace() bool { return cfg.trace }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Metrics returns the counters updated by every Conn of this Config.
func (cfg *Config) Metrics() *Metrics { return cfg.metrics }

// ConnOption is a functional option for configuring a Config.
type ConnOption interface {
	apply(*Config) error
}

type connOptFunc func(*Config) error

func (f connOptFunc) apply(cfg *Config) error { return f(cfg) }

// WithTimeout sets the bound of each readiness wait, in [MinTimeout, MaxTimeout].
func WithTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *Config) error {
		if d < MinTimeout || d > MaxTimeout {
			return fmt.Errorf("transport: timeout %v out of range [%v, %v]", d, MinTimeout, MaxTimeout)
		}
		cfg.timeout = d

		return nil
	})
}

// WithConnectTimeout sets the bound of Dial, in [MinConnectTimeout, MaxConnectTimeout].
func WithConnectTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *Config) error {
		if d < MinConnectTimeout || d > MaxConnectTimeout {
			return fmt.Errorf("transport: connect timeout %v out of range [%v, %v]", d, MinConnectTimeout, MaxConnectTimeout)
		}
		cfg.connectTimeout = d

		return nil
	})
}

// WithTrace enables hex dumps of every sent and received frame at debug level.
// The dumps still need a logger whose level admits debug output.
func WithTrace(enabled bool) ConnOption {
	return connOptFunc(func(cfg *Config) error {
		cfg.trace = enabled
		return nil
	})
}

// WithLogger sets the logger. A nil logger is rejected.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *Config) error {
		if l == nil {
			return fmt.Errorf("transport: nil logger")
		}
		cfg.logger = l

		return nil
	})
}

// WithMetrics makes every Conn of the Config update m. It allows several
// configurations, or a server and its owner, to share one set of counters.
func WithMetrics(m *Metrics) ConnOption {
	return connOptFunc(func(cfg *Config) error {
		if m == nil {
			return fmt.Errorf("transport: nil metrics")
		}
		cfg.metrics = m

		return nil
	})
}
