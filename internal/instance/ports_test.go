package instance

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstFreePort(t *testing.T) {
	always := func(int) bool { return true }

	t.Run("returns 6379 when nothing is used", func(t *testing.T) {
		port, err := firstFreePort(nil, always)
		require.NoError(t, err)
		assert.Equal(t, 6379, port)
	})

	t.Run("skips ports labelled on containers", func(t *testing.T) {
		port, err := firstFreePort(map[int]bool{6379: true, 6380: true}, always)
		require.NoError(t, err)
		assert.Equal(t, 6381, port)
	})

	t.Run("skips ports bound on the host", func(t *testing.T) {
		port, err := firstFreePort(nil, func(p int) bool { return p != 6379 })
		require.NoError(t, err)
		assert.Equal(t, 6380, port)
	})

	t.Run("reports exhausted range", func(t *testing.T) {
		_, err := firstFreePort(nil, func(int) bool { return false })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "range 6379-6478 exhausted")
	})
}

func TestIsPortBindable(t *testing.T) {
	t.Run("returns true for available port", func(t *testing.T) {
		listener, err := net.Listen("tcp", "localhost:0")
		require.NoError(t, err)
		port := listener.Addr().(*net.TCPAddr).Port
		listener.Close()

		require.True(t, isPortBindable(port))
	})

	t.Run("returns false for port in use", func(t *testing.T) {
		listener, err := net.Listen("tcp", "localhost:0")
		require.NoError(t, err)
		defer listener.Close()

		port := listener.Addr().(*net.TCPAddr).Port
		require.False(t, isPortBindable(port))
	})
}
