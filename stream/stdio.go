package stream

import (
	"os"
	"sync"
)

var (
	stdoutOnce sync.Once
	stdout     *Stream
	stderrOnce sync.Once
	stderr     *Stream
)

// Stdout returns the process-wide stream over os.Stdout.
// Closing it never closes os.Stdout.
func Stdout() *Stream {
	stdoutOnce.Do(func() {
		stdout = New(os.Stdout, WithName("stdout"))
		stdout.keepOpen = true
	})
	return stdout
}

// Stderr returns the process-wide stream over os.Stderr.
// Closing it never closes os.Stderr.
func Stderr() *Stream {
	stderrOnce.Do(func() {
		stderr = New(os.Stderr, WithName("stderr"))
		stderr.keepOpen = true
	})
	return stderr
}
