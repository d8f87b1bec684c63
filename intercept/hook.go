package intercept

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"

	"github.com/randalmurphal/streamtap/stream"
)

// record is the registry's state for one active interception.
type record struct {
	id     string
	seq    uint64
	stream *stream.Stream
	token  *stream.Token
	opts   Options
	handle *Handle
	logger *slog.Logger

	mu      sync.Mutex
	buf     bytes.Buffer
	removed bool
}

// snapshot returns a copy of the buffer. It is never nil.
func (r *record) snapshot() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte{}, r.buf.Bytes()...)
}

func (r *record) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Reset()
}

// pending hands freshly created records to hookFactory while Stream.Append
// runs. Identifiers are globally unique, so registries sharing a host and a
// prefix never see each other's entries.
var pending sync.Map // id -> *record

// hookFactory is the stream.Factory installed by Registry.Register.
func hookFactory(name string) (stream.Filter, error) {
	v, ok := pending.LoadAndDelete(name)
	if !ok {
		return nil, fmt.Errorf("no interception is being created for %q", name)
	}
	return &hook{rec: v.(*record)}, nil
}

// hook is the write filter attached to an intercepted stream.
type hook struct {
	rec *record
}

// Filter records the whole chunk and returns the outcome dictated by the
// record's strategy. Chunks arriving after the record was stopped are
// forwarded untouched.
func (h *hook) Filter(chunk []byte) (int, stream.Outcome) {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()

	if h.rec.removed {
		return len(chunk), stream.Continue
	}

	h.rec.buf.Write(chunk)
	return len(chunk), h.rec.opts.Strategy.Outcome()
}

// OnClose only logs. The record and its buffer stay in the registry until
// StopIntercepting.
func (h *hook) OnClose() {
	h.rec.mu.Lock()
	size := h.rec.buf.Len()
	h.rec.mu.Unlock()

	h.rec.logger.Debug("intercepted stream closed",
		slog.String("id", h.rec.id),
		slog.String("stream", h.rec.stream.Name()),
		slog.Int("buffered_bytes", size))
}
