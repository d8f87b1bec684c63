package intercept

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/randalmurphal/streamtap/stream"
)

// Registry owns every active interception minted from it. An identifier is
// present in the registry exactly while its interception is active.
// It is safe for concurrent use.
type Registry struct {
	host     *stream.Host
	logger   *slog.Logger
	prefix   string
	defaults Options

	mu      sync.RWMutex
	records map[string]*record
	seq     uint64
}

// NewRegistry creates an empty registry. Register must be called before the
// first Intercept.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.host == nil {
		cfg.host = stream.DefaultHost()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Registry{
		host:     cfg.host,
		logger:   cfg.logger,
		prefix:   cfg.prefix,
		defaults: cfg.defaults,
		records:  make(map[string]*record),
	}
}

// Pattern returns the filter pattern the registry installs on its host.
func (r *Registry) Pattern() string {
	return r.prefix + ".*"
}

// Host returns the stream host the registry installs its hook into.
func (r *Registry) Host() *stream.Host {
	return r.host
}

// Register installs the write hook on the host. Calling it more than once
// is a no-op.
func (r *Registry) Register() {
	if r.host.Register(r.Pattern(), hookFactory) {
		r.logger.Debug("interception registered", slog.String("pattern", r.Pattern()))
	}
}

// IsRegistered reports whether the write hook is installed on the host.
func (r *Registry) IsRegistered() bool {
	return r.host.IsRegistered(r.Pattern())
}

// Intercept starts capturing writes made to target, which must be a
// *stream.Stream. Per-call options are applied over the registry defaults.
//
// Example:
//
//	reg.Register()
//	h, err := reg.Intercept(s, intercept.WithStrategy(intercept.PassThrough))
//	if err != nil {
//	    return err
//	}
//	defer h.StopIntercepting()
func (r *Registry) Intercept(target any, opts ...Option) (*Handle, error) {
	s, ok := target.(*stream.Stream)
	if !ok || s == nil {
		return nil, &Error{Op: OpIntercept, Type: fmt.Sprintf("%T", target), Err: ErrInvalidResourceType}
	}

	// The hook is resolved on the stream's host, which may differ from r.host.
	if !s.Host().IsRegistered(r.Pattern()) {
		return nil, &Error{Op: OpIntercept, Err: ErrNotRegistered}
	}

	options := r.defaults
	for _, opt := range opts {
		opt(&options)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.mintID()
	if err != nil {
		return nil, &Error{Op: OpIntercept, Err: err}
	}

	rec := &record{
		id:     id,
		stream: s,
		opts:   options,
		logger: r.logger,
	}

	pending.Store(id, rec)
	token, err := s.Append(id)
	pending.Delete(id)
	if errors.Is(err, stream.ErrFilterNotRegistered) {
		return nil, &Error{Op: OpIntercept, Err: ErrNotRegistered}
	}
	if err != nil {
		return nil, &Error{Op: OpIntercept, ID: id, Err: err}
	}

	r.seq++
	rec.seq = r.seq
	rec.token = token
	rec.handle = &Handle{id: id, registry: r}
	r.records[id] = rec

	r.logger.Debug("intercepting stream",
		slog.String("id", id),
		slog.String("stream", s.Name()),
		slog.String("strategy", options.Strategy.String()))

	return rec.handle, nil
}

// mintID returns a fresh identifier not used by any active record.
// Caller must hold r.mu.
func (r *Registry) mintID() (string, error) {
	for {
		u, err := uuid.NewRandom()
		if err != nil {
			return "", fmt.Errorf("mint identifier: %w", err)
		}
		id := r.prefix + "." + strings.ReplaceAll(u.String(), "-", "")
		if _, exists := r.records[id]; !exists {
			return id, nil
		}
	}
}

// StopIntercepting detaches the interception from its stream and deletes the
// record. The stream and any other filters on it keep working. A second call
// for the same identifier fails with ErrRecordNotFound.
func (r *Registry) StopIntercepting(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return errNotFound(OpStop, id)
	}

	if err := rec.stream.Remove(rec.token); err != nil {
		r.logger.Warn("intercept filter already detached",
			slog.String("id", id),
			slog.Any("error", err))
	}

	rec.mu.Lock()
	rec.removed = true
	rec.mu.Unlock()

	delete(r.records, id)

	r.logger.Debug("stopped intercepting stream",
		slog.String("id", id),
		slog.String("stream", rec.stream.Name()))
	return nil
}

// Output returns a copy of the bytes captured for id.
func (r *Registry) Output(id string) ([]byte, error) {
	rec, ok := r.lookup(id)
	if !ok {
		return nil, errNotFound(OpOutput, id)
	}
	return rec.snapshot(), nil
}

// Reset empties the buffer for id without affecting its strategy or identity.
func (r *Registry) Reset(id string) error {
	rec, ok := r.lookup(id)
	if !ok {
		return errNotFound(OpReset, id)
	}
	rec.reset()
	return nil
}

// ResetAll empties every active buffer.
func (r *Registry) ResetAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		rec.reset()
	}
}

// Buffers returns a snapshot of identifier to captured bytes.
// Later writes do not affect the returned map.
func (r *Registry) Buffers() map[string][]byte {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buffers := make(map[string][]byte, len(r.records))
	for id, rec := range r.records {
		buffers[id] = rec.snapshot()
	}
	return buffers
}

// Handles returns the handles of all active interceptions in creation order.
func (r *Registry) Handles() []*Handle {
	r.mu.RLock()
	recs := make([]*record, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	handles := make([]*Handle, len(recs))
	for i, rec := range recs {
		handles[i] = rec.handle
	}
	return handles
}

// Active reports whether id names an active interception.
func (r *Registry) Active(id string) bool {
	_, ok := r.lookup(id)
	return ok
}

// Len returns the number of active interceptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Close stops every active interception.
// This is primarily useful for test cleanup.
func (r *Registry) Close() error {
	var errs []error
	for _, h := range r.Handles() {
		if err := h.StopIntercepting(); err != nil && !IsNotFound(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) lookup(id string) (*record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	return rec, ok
}
