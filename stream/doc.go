// Package stream provides writable streams whose writes pass through a chain
// of named filters before reaching their destination.
//
// A Stream wraps any io.Writer. Filters are created by factories registered
// on a Host under a name or a wildcard pattern:
//
//	host := stream.NewHost()
//	host.Register("upper.*", func(name string) (stream.Filter, error) {
//	    return newUpperFilter(), nil
//	})
//
//	s := stream.New(os.Stdout, stream.WithHost(host))
//	token, _ := s.Append("upper.1")
//	fmt.Fprint(s, "hello")    // filtered
//	_ = s.Remove(token)       // stream keeps working, unfiltered
//
// # Outcomes
//
// Every chunk delivered to a filter yields an Outcome:
//
//   - Continue: hand the chunk to the next filter or the destination
//   - Suppress: the chunk is consumed and goes no further
//   - Fail: the write fails with ErrFatalWrite
//
// Large writes are split into chunks of at most the stream's chunk size
// (8192 bytes by default). Each chunk runs through the full chain before the
// next one is processed, so ordering within a stream is preserved.
//
// # Standard Streams
//
// Stdout and Stderr return process-wide streams over os.Stdout and os.Stderr
// bound to DefaultHost.
package stream
