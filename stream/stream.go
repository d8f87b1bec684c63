package stream

import (
	"fmt"
	"io"
	"sync"
)

// DefaultChunkSize is the largest chunk a filter receives for a single write.
const DefaultChunkSize = 8192

// Option configures a Stream.
type Option func(*Stream)

// WithHost sets the host used to resolve filter names.
// Default: DefaultHost().
func WithHost(h *Host) Option {
	return func(s *Stream) { s.host = h }
}

// WithChunkSize sets the maximum chunk size delivered to filters.
// Values <= 0 keep the default.
func WithChunkSize(n int) Option {
	return func(s *Stream) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithName sets a descriptive name used in errors and String.
func WithName(name string) Option {
	return func(s *Stream) { s.name = name }
}

// Stream is a writable stream whose writes run through an ordered chain of
// filters before reaching the destination writer.
// It is safe for concurrent use; writes are serialized.
type Stream struct {
	mu        sync.Mutex
	dst       io.Writer
	host      *Host
	name      string
	chunkSize int
	filters   []*Token
	nextID    uint64
	closed    bool
	keepOpen  bool
}

// Token identifies one filter attached to one stream.
// It is returned by Append and consumed by Remove.
type Token struct {
	id     uint64
	name   string
	stream *Stream
	filter Filter
}

// Name returns the filter name the token was created with.
func (t *Token) Name() string {
	return t.name
}

// New creates a stream that writes to dst.
func New(dst io.Writer, opts ...Option) *Stream {
	s := &Stream{
		dst:       dst,
		chunkSize: DefaultChunkSize,
		name:      fmt.Sprintf("%T", dst),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.host == nil {
		s.host = DefaultHost()
	}
	return s
}

// Name returns the stream name.
func (s *Stream) Name() string {
	return s.name
}

// Host returns the host used to resolve filter names.
func (s *Stream) Host() *Host {
	return s.host
}

// String implements fmt.Stringer.
func (s *Stream) String() string {
	return "stream(" + s.name + ")"
}

// Append creates the filter registered for name and attaches it to the end
// of the chain.
func (s *Stream) Append(name string) (*Token, error) {
	filter, err := s.host.newFilter(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("append filter %s to %s: %w", name, s, ErrClosed)
	}

	s.nextID++
	token := &Token{id: s.nextID, name: name, stream: s, filter: filter}
	s.filters = append(s.filters, token)
	return token, nil
}

// Remove detaches exactly the filter identified by token. Other filters and
// the stream itself are left untouched. Removing from a closed stream is
// allowed.
func (s *Stream) Remove(token *Token) error {
	if token == nil || token.stream != s {
		return ErrFilterNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.filters {
		if t.id == token.id {
			s.filters = append(s.filters[:i:i], s.filters[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrFilterNotFound, token.name)
}

// Filters returns the names of attached filters in chain order.
func (s *Stream) Filters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.filters))
	for i, t := range s.filters {
		names[i] = t.name
	}
	return names
}

// Write implements io.Writer. p is split into chunks of at most the stream's
// chunk size; each chunk passes through every filter before the next chunk is
// processed. Suppressed chunks count as written.
func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	written := 0
	for off := 0; off < len(p); off += s.chunkSize {
		chunk := p[off:min(off+s.chunkSize, len(p))]

		forward, err := s.runChain(chunk)
		if err != nil {
			return written, err
		}

		if forward {
			n, err := s.dst.Write(chunk)
			if err != nil {
				return written + n, err
			}
		}
		written += len(chunk)
	}
	return written, nil
}

// runChain reports whether chunk should reach the destination.
func (s *Stream) runChain(chunk []byte) (bool, error) {
	for _, t := range s.filters {
		consumed, out := t.filter.Filter(chunk)
		if consumed != len(chunk) {
			return false, fmt.Errorf("%w: %s consumed %d of %d bytes", ErrPartialConsume, t.name, consumed, len(chunk))
		}

		switch out {
		case Continue:
			continue
		case Suppress:
			return false, nil
		default:
			return false, fmt.Errorf("write to %s: %w (filter %s)", s, ErrFatalWrite, t.name)
		}
	}
	return true, nil
}

// Close notifies attached filters and closes the destination if it is an
// io.Closer. Standard streams are never closed. Close is idempotent.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	attached := append([]*Token(nil), s.filters...)
	s.mu.Unlock()

	for _, t := range attached {
		t.filter.OnClose()
	}

	if c, ok := s.dst.(io.Closer); ok && !s.keepOpen {
		return c.Close()
	}
	return nil
}

// Closed reports whether Close has been called.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
