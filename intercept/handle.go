package intercept

// Buffer is the capability set of one interception.
type Buffer interface {
	// Output returns the bytes captured so far.
	Output() ([]byte, error)

	// Reset empties the captured bytes. The interception stays active.
	Reset() error

	// StopIntercepting detaches from the stream and discards the buffer.
	// It succeeds once; later calls fail with ErrRecordNotFound.
	StopIntercepting() error
}

// Handle refers to one interception in the registry that created it.
// It holds the identifier, not the buffer, so every call observes the
// registry's current state.
type Handle struct {
	id       string
	registry *Registry
}

var _ Buffer = (*Handle)(nil)

// ID returns the interception identifier.
func (h *Handle) ID() string {
	return h.id
}

// String implements fmt.Stringer.
func (h *Handle) String() string {
	return h.id
}

// Output implements Buffer.
func (h *Handle) Output() ([]byte, error) {
	return h.registry.Output(h.id)
}

// OutputString returns Output as a string.
func (h *Handle) OutputString() (string, error) {
	out, err := h.registry.Output(h.id)
	return string(out), err
}

// Reset implements Buffer.
func (h *Handle) Reset() error {
	return h.registry.Reset(h.id)
}

// StopIntercepting implements Buffer.
func (h *Handle) StopIntercepting() error {
	return h.registry.StopIntercepting(h.id)
}

// Active reports whether the interception is still registered.
func (h *Handle) Active() bool {
	return h.registry.Active(h.id)
}
