package streamtap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/randalmurphal/streamtap/config"
	"github.com/randalmurphal/streamtap/intercept"
	"github.com/randalmurphal/streamtap/stream"
)

// New creates a registry from cfg on stream.DefaultHost. Extra options are
// applied after the ones derived from cfg.
func New(cfg config.Config, opts ...intercept.RegistryOption) (*intercept.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	all := make([]intercept.RegistryOption, 0, len(opts)+3)
	all = append(all,
		intercept.WithIDPrefix(cfg.IDPrefix),
		intercept.WithDefaultOptions(intercept.Options{Strategy: cfg.DefaultStrategy}),
		intercept.WithLogger(cfg.Logger(os.Stderr)),
	)
	all = append(all, opts...)
	return intercept.NewRegistry(all...), nil
}

// NewStream creates a stream over dst using the chunk size from cfg.
func NewStream(dst io.Writer, cfg config.Config, opts ...stream.Option) *stream.Stream {
	all := append([]stream.Option{stream.WithChunkSize(cfg.ChunkSize)}, opts...)
	return stream.New(dst, all...)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *intercept.Registry
)

// Default returns the process-wide registry, configured from STREAMTAP_*
// environment variables. An invalid environment falls back to defaults.
func Default() *intercept.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = defaultFromConfig(config.FromEnv())
	})
	return defaultRegistry
}

// defaultFromConfig never returns nil; an invalid cfg yields a registry with
// default options.
func defaultFromConfig(cfg config.Config) *intercept.Registry {
	reg, err := New(cfg)
	if err != nil {
		slog.Warn("invalid streamtap environment, using defaults", slog.Any("error", err))
		return intercept.NewRegistry()
	}
	return reg
}

// Register installs the default registry's write hook. Safe to call repeatedly.
func Register() {
	Default().Register()
}

// Intercept starts capturing writes to target with the default registry.
func Intercept(target any, opts ...intercept.Option) (*intercept.Handle, error) {
	return Default().Intercept(target, opts...)
}

// ResetAll empties every buffer of the default registry.
func ResetAll() {
	Default().ResetAll()
}

// Buffers returns a snapshot of the default registry's buffers.
func Buffers() map[string][]byte {
	return Default().Buffers()
}

// Handles returns the default registry's active handles in creation order.
func Handles() []*intercept.Handle {
	return Default().Handles()
}
