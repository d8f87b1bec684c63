package stream

// Outcome tells the stream what to do with a chunk after a filter has seen it.
type Outcome int

const (
	// Continue forwards the chunk to the next filter, or to the destination.
	Continue Outcome = iota
	// Suppress treats the chunk as fully consumed and forwards nothing.
	Suppress
	// Fail aborts the write with ErrFatalWrite.
	Fail
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Suppress:
		return "suppress"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}

// Filter observes every chunk written to a stream it is attached to.
type Filter interface {
	// Filter receives one chunk and reports how many bytes were consumed
	// along with the outcome for the chunk. Filters must consume the whole
	// chunk; partial consumption fails the write with ErrPartialConsume.
	Filter(chunk []byte) (consumed int, out Outcome)

	// OnClose is called once when the stream is closed while the filter is
	// still attached.
	OnClose()
}

// FilterFunc adapts a plain function to Filter. OnClose is a no-op.
type FilterFunc func(chunk []byte) (int, Outcome)

// Filter implements Filter.
func (f FilterFunc) Filter(chunk []byte) (int, Outcome) {
	return f(chunk)
}

// OnClose implements Filter.
func (f FilterFunc) OnClose() {}
