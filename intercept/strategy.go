package intercept

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/randalmurphal/streamtap/stream"
)

// Strategy decides what happens to captured bytes after they are recorded.
type Strategy int

const (
	// Trap records the bytes and keeps them from reaching the stream's
	// destination. It is the zero value and the default.
	Trap Strategy = iota

	// PassThrough records the bytes and forwards them unchanged.
	PassThrough

	// FatalError records the bytes, then fails the write.
	FatalError
)

// strategyNames maps each strategy to its canonical text form.
var strategyNames = map[Strategy]string{
	Trap:        "trap",
	PassThrough: "pass_through",
	FatalError:  "fatal_error",
}

// strategyOutcomes is the dispatch table from strategy to stream outcome.
var strategyOutcomes = map[Strategy]stream.Outcome{
	PassThrough: stream.Continue,
	Trap:        stream.Suppress,
	FatalError:  stream.Fail,
}

// String returns the canonical name ("trap", "pass_through", "fatal_error").
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Valid reports whether s is one of the defined strategies.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// Outcome returns the stream outcome for a chunk captured under s.
// Unknown strategies fail the write.
func (s Strategy) Outcome() stream.Outcome {
	if out, ok := strategyOutcomes[s]; ok {
		return out
	}
	return stream.Fail
}

// ParseStrategy parses a strategy name. Matching is case-insensitive and
// accepts "passthru" and "passthrough" for PassThrough, and "-" in place of "_".
func ParseStrategy(name string) (Strategy, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	switch normalized {
	case "trap":
		return Trap, nil
	case "pass_through", "passthru", "passthrough":
		return PassThrough, nil
	case "fatal_error", "fatalerror":
		return FatalError, nil
	}
	return Trap, fmt.Errorf("unknown response strategy %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown response strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// JSONSchema describes Strategy as a string enum.
func (Strategy) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Title:       "Response strategy",
		Description: "What happens to intercepted bytes after they are captured.",
		Enum:        []any{"trap", "pass_through", "fatal_error"},
		Default:     "trap",
	}
}
