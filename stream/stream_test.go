package stream

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFilter captures chunks and returns a fixed outcome.
type recordingFilter struct {
	out    Outcome
	chunks []string
	closed int
}

func (f *recordingFilter) Filter(chunk []byte) (int, Outcome) {
	f.chunks = append(f.chunks, string(chunk))
	return len(chunk), f.out
}

func (f *recordingFilter) OnClose() { f.closed++ }

func newTestHost(filters map[string]*recordingFilter) *Host {
	h := NewHost()
	for name, f := range filters {
		f := f
		h.Register(name, func(string) (Filter, error) { return f, nil })
	}
	return h
}

type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestStream_NoFilters(t *testing.T) {
	var dst bytes.Buffer
	s := New(&dst, WithHost(NewHost()))

	n, err := s.Write([]byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "plain", dst.String())
}

func TestStream_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		out     Outcome
		wantDst string
		wantN   int
		wantErr error
	}{
		{name: "continue forwards", out: Continue, wantDst: "data", wantN: 4},
		{name: "suppress consumes", out: Suppress, wantDst: "", wantN: 4},
		{name: "fail aborts", out: Fail, wantDst: "", wantN: 0, wantErr: ErrFatalWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &recordingFilter{out: tt.out}
			var dst bytes.Buffer
			s := New(&dst, WithHost(newTestHost(map[string]*recordingFilter{"f": f})))

			_, err := s.Append("f")
			require.NoError(t, err)

			n, err := s.Write([]byte("data"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantN, n)
			assert.Equal(t, tt.wantDst, dst.String())
			assert.Equal(t, []string{"data"}, f.chunks)
		})
	}
}

func TestStream_Chunking(t *testing.T) {
	f := &recordingFilter{out: Continue}
	var dst bytes.Buffer
	s := New(&dst, WithHost(newTestHost(map[string]*recordingFilter{"f": f})), WithChunkSize(3))

	_, err := s.Append("f")
	require.NoError(t, err)

	n, err := s.Write([]byte("abcdefgh"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []string{"abc", "def", "gh"}, f.chunks)
	assert.Equal(t, "abcdefgh", dst.String())
}

func TestStream_ChainOrder(t *testing.T) {
	first := &recordingFilter{out: Suppress}
	second := &recordingFilter{out: Continue}
	var dst bytes.Buffer
	s := New(&dst, WithHost(newTestHost(map[string]*recordingFilter{"first": first, "second": second})))

	_, err := s.Append("first")
	require.NoError(t, err)
	_, err = s.Append("second")
	require.NoError(t, err)

	_, err = s.Write([]byte("x"))
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, first.chunks)
	assert.Empty(t, second.chunks, "suppressed chunk must not reach later filters")
	assert.Equal(t, []string{"first", "second"}, s.Filters())
}

func TestStream_RemoveLeavesOthers(t *testing.T) {
	a := &recordingFilter{out: Continue}
	b := &recordingFilter{out: Continue}
	var dst bytes.Buffer
	s := New(&dst, WithHost(newTestHost(map[string]*recordingFilter{"a": a, "b": b})))

	ta, err := s.Append("a")
	require.NoError(t, err)
	_, err = s.Append("b")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ta))
	assert.Equal(t, []string{"b"}, s.Filters())

	_, err = s.Write([]byte("after"))
	require.NoError(t, err)
	assert.Empty(t, a.chunks)
	assert.Equal(t, []string{"after"}, b.chunks)
	assert.Equal(t, "after", dst.String())

	err = s.Remove(ta)
	assert.ErrorIs(t, err, ErrFilterNotFound)
}

func TestStream_RemoveForeignToken(t *testing.T) {
	f := &recordingFilter{}
	host := newTestHost(map[string]*recordingFilter{"f": f})
	s1 := New(&bytes.Buffer{}, WithHost(host))
	s2 := New(&bytes.Buffer{}, WithHost(host))

	tok, err := s1.Append("f")
	require.NoError(t, err)

	assert.ErrorIs(t, s2.Remove(tok), ErrFilterNotFound)
	assert.ErrorIs(t, s2.Remove(nil), ErrFilterNotFound)
}

func TestStream_AppendUnregistered(t *testing.T) {
	s := New(&bytes.Buffer{}, WithHost(NewHost()))

	_, err := s.Append("missing")
	assert.ErrorIs(t, err, ErrFilterNotRegistered)
}

func TestStream_WildcardPattern(t *testing.T) {
	h := NewHost()
	var names []string
	h.Register("tap.*", func(name string) (Filter, error) {
		names = append(names, name)
		return FilterFunc(func(chunk []byte) (int, Outcome) { return len(chunk), Continue }), nil
	})

	s := New(&bytes.Buffer{}, WithHost(h))
	_, err := s.Append("tap.one")
	require.NoError(t, err)
	_, err = s.Append("tap.two")
	require.NoError(t, err)

	_, err = s.Append("other.one")
	assert.ErrorIs(t, err, ErrFilterNotRegistered)
	assert.Equal(t, []string{"tap.one", "tap.two"}, names)
}

func TestStream_FactoryError(t *testing.T) {
	h := NewHost()
	boom := errors.New("boom")
	h.Register("bad", func(string) (Filter, error) { return nil, boom })

	s := New(&bytes.Buffer{}, WithHost(h))
	_, err := s.Append("bad")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Filters())
}

func TestStream_PartialConsume(t *testing.T) {
	h := NewHost()
	h.Register("half", func(string) (Filter, error) {
		return FilterFunc(func(chunk []byte) (int, Outcome) { return len(chunk) / 2, Continue }), nil
	})

	s := New(&bytes.Buffer{}, WithHost(h))
	_, err := s.Append("half")
	require.NoError(t, err)

	_, err = s.Write([]byte("abcd"))
	assert.ErrorIs(t, err, ErrPartialConsume)
}

func TestStream_Close(t *testing.T) {
	f := &recordingFilter{out: Continue}
	dst := &closeRecorder{}
	s := New(dst, WithHost(newTestHost(map[string]*recordingFilter{"f": f})))

	tok, err := s.Append("f")
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, s.Closed())
	assert.True(t, dst.closed)
	assert.Equal(t, 1, f.closed, "OnClose runs once")

	_, err = s.Write([]byte("late"))
	assert.ErrorIs(t, err, ErrClosed)

	_, err = s.Append("f")
	assert.ErrorIs(t, err, ErrClosed)

	assert.NoError(t, s.Remove(tok), "removal after close is allowed")
}

func TestStream_FatalAfterForwardedChunks(t *testing.T) {
	calls := 0
	h := NewHost()
	h.Register("third", func(string) (Filter, error) {
		return FilterFunc(func(chunk []byte) (int, Outcome) {
			calls++
			if calls == 3 {
				return len(chunk), Fail
			}
			return len(chunk), Continue
		}), nil
	})

	var dst bytes.Buffer
	s := New(&dst, WithHost(h), WithChunkSize(2))
	_, err := s.Append("third")
	require.NoError(t, err)

	n, err := s.Write([]byte("aabbcc"))
	assert.ErrorIs(t, err, ErrFatalWrite)
	assert.Equal(t, 4, n)
	assert.Equal(t, "aabb", dst.String())
}

func TestStream_Host(t *testing.T) {
	h := NewHost()
	assert.Same(t, h, New(&bytes.Buffer{}, WithHost(h)).Host())
	assert.Same(t, DefaultHost(), New(&bytes.Buffer{}).Host())
}

func TestStdio(t *testing.T) {
	assert.Same(t, Stdout(), Stdout())
	assert.Same(t, Stderr(), Stderr())
	assert.Equal(t, "stdout", Stdout().Name())
	assert.True(t, strings.Contains(Stderr().String(), "stderr"))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "suppress", Suppress.String())
	assert.Equal(t, "fail", Fail.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
