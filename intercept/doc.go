// Package intercept captures bytes written to streams into queryable buffers.
//
// A Registry installs a write hook on a stream.Host once, then wraps any
// number of streams. Each interception gets a unique identifier and a Handle:
//
//	reg := intercept.NewRegistry()
//	reg.Register()
//
//	h, err := reg.Intercept(stream.Stdout())
//	if err != nil {
//	    return err
//	}
//	fmt.Fprint(stream.Stdout(), "hello")
//	out, _ := h.Output() // "hello"; nothing reached os.Stdout
//	_ = h.StopIntercepting()
//
// # Strategies
//
// The bytes are always captured. The Strategy decides what else happens:
//
//   - Trap (default): the write is swallowed
//   - PassThrough: the write also reaches the destination
//   - FatalError: the write fails with stream.ErrFatalWrite
//
// # Lifecycle
//
// An interception is active from Intercept until StopIntercepting. Output and
// Reset may be called any number of times while it is active. After
// StopIntercepting, every operation on the identifier fails with
// ErrRecordNotFound, including a second StopIntercepting.
//
// Closing an intercepted stream does not end the interception: the buffer
// stays readable until StopIntercepting is called.
//
// # Errors
//
//   - ErrInvalidResourceType: Intercept was given something other than a *stream.Stream
//   - ErrNotRegistered: Intercept was called before Register
//   - ErrRecordNotFound: the identifier has no active interception
//
// All are wrapped in *Error, whose Op field names the failing operation.
package intercept
