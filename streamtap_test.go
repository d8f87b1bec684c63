package streamtap_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/streamtap"
	"github.com/randalmurphal/streamtap/config"
	"github.com/randalmurphal/streamtap/intercept"
)

func TestDefaultRegistry(t *testing.T) {
	streamtap.Register()
	streamtap.Register()
	assert.Same(t, streamtap.Default(), streamtap.Default())
	assert.True(t, streamtap.Default().IsRegistered())

	var dst bytes.Buffer
	s := streamtap.NewStream(&dst, config.DefaultConfig())

	h, err := streamtap.Intercept(s)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.StopIntercepting() })

	fmt.Fprint(s, "via default registry")

	out, err := h.OutputString()
	require.NoError(t, err)
	assert.Equal(t, "via default registry", out)
	assert.Contains(t, streamtap.Buffers(), h.ID())
	assert.Contains(t, streamtap.Handles(), h)

	streamtap.ResetAll()
	out, err = h.OutputString()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestInterceptNonStream(t *testing.T) {
	streamtap.Register()

	_, err := streamtap.Intercept("something")
	assert.ErrorIs(t, err, intercept.ErrInvalidResourceType)
}

func TestNew_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig().
		WithIDPrefix("configured").
		WithDefaultStrategy(intercept.PassThrough).
		WithChunkSize(2).
		WithLogLevel(config.LevelError)

	reg, err := streamtap.New(cfg)
	require.NoError(t, err)
	reg.Register()
	t.Cleanup(func() { _ = reg.Close() })

	var dst bytes.Buffer
	s := streamtap.NewStream(&dst, cfg)

	h, err := reg.Intercept(s)
	require.NoError(t, err)
	assert.Contains(t, h.ID(), "configured.")

	fmt.Fprint(s, "abcde")

	out, err := h.OutputString()
	require.NoError(t, err)
	assert.Equal(t, "abcde", out)
	assert.Equal(t, "abcde", dst.String(), "pass-through default from config")
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := streamtap.New(config.DefaultConfig().WithChunkSize(-1))
	assert.Error(t, err)
}
