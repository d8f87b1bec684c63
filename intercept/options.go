package intercept

import (
	"log/slog"

	"github.com/randalmurphal/streamtap/stream"
)

// Options configures a single interception.
type Options struct {
	// Strategy controls whether captured bytes still reach the stream.
	// Default: Trap.
	Strategy Strategy `json:"strategy" yaml:"strategy"`
}

// DefaultOptions returns the options used when Intercept is given none.
func DefaultOptions() Options {
	return Options{Strategy: Trap}
}

// Option overrides one interception setting.
type Option func(*Options)

// WithStrategy sets the response strategy for the interception.
func WithStrategy(s Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

// WithOptions replaces all interception settings with opts.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

// DefaultIDPrefix is the prefix of every identifier and of the filter pattern
// the registry installs.
const DefaultIDPrefix = "streamtap"

// registryConfig holds registry configuration.
type registryConfig struct {
	host     *stream.Host
	logger   *slog.Logger
	prefix   string
	defaults Options
}

// defaultRegistryConfig returns the default registry configuration.
func defaultRegistryConfig() registryConfig {
	return registryConfig{
		prefix:   DefaultIDPrefix,
		defaults: DefaultOptions(),
	}
}

// WithHost sets the stream host the registry installs its hook into.
// Default: stream.DefaultHost().
func WithHost(h *stream.Host) RegistryOption {
	return func(c *registryConfig) { c.host = h }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) RegistryOption {
	return func(c *registryConfig) { c.logger = l }
}

// WithIDPrefix sets the identifier prefix. Empty values keep the default.
func WithIDPrefix(prefix string) RegistryOption {
	return func(c *registryConfig) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithDefaultOptions sets the options applied before per-call Options.
func WithDefaultOptions(opts Options) RegistryOption {
	return func(c *registryConfig) { c.defaults = opts }
}
