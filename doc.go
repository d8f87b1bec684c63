// Package streamtap captures output written to streams so tests can assert
// on it without permanently redirecting it.
//
// streamtap is split into small packages that can be used independently:
//
//   - stream: writable streams with a chain of named filters
//   - intercept: interception registry, handles and response strategies
//   - config: settings from files (YAML, TOML, JSON) and the environment
//
// # Quick Start
//
// Using the process-wide registry:
//
//	import "github.com/randalmurphal/streamtap"
//
//	streamtap.Register()
//	h, _ := streamtap.Intercept(stream.Stdout())
//	fmt.Fprint(stream.Stdout(), "hello")
//	out, _ := h.OutputString() // "hello"
//	_ = h.StopIntercepting()
//
// Using an explicit registry, which is easier to isolate in tests:
//
//	reg, err := streamtap.New(config.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	reg.Register()
//	defer reg.Close()
//
//	s := streamtap.NewStream(&buf, config.DefaultConfig())
//	h, _ := reg.Intercept(s, intercept.WithStrategy(intercept.PassThrough))
//
// # Design
//
// Captured bytes always land in the buffer. The response strategy only
// decides whether the write also reaches its destination (PassThrough), is
// swallowed (Trap, the default) or fails (FatalError).
package streamtap
