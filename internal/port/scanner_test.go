package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenTCP binds an OS-assigned TCP port for the duration of the test.
func listenTCP(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	addr, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)
	return addr.Port
}

func TestIsPortAvailable(t *testing.T) {
	scanner := NewScanner()

	t.Run("bound tcp port", func(t *testing.T) {
		port := listenTCP(t)
		assert.False(t, scanner.IsPortAvailable(port, "tcp"))
	})

	t.Run("bound udp port", func(t *testing.T) {
		conn, err := net.ListenPacket("udp", ":0")
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		addr, ok := conn.LocalAddr().(*net.UDPAddr)
		require.True(t, ok)
		assert.False(t, scanner.IsPortAvailable(addr.Port, "udp"))
	})

	t.Run("free port", func(t *testing.T) {
		port, err := scanner.FindAvailablePort(50000, 50100, "tcp")
		require.NoError(t, err)
		assert.True(t, scanner.IsPortAvailable(port, "tcp"))
	})

	t.Run("unknown protocol", func(t *testing.T) {
		assert.False(t, scanner.IsPortAvailable(50000, "sctp"))
	})

	t.Run("out of range", func(t *testing.T) {
		assert.False(t, scanner.IsPortAvailable(0, "tcp"))
		assert.False(t, scanner.IsPortAvailable(70000, "tcp"))
	})
}

func TestFindAvailablePort(t *testing.T) {
	scanner := NewScanner()

	port, err := scanner.FindAvailablePort(50000, 50100, "tcp")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 50000)
	assert.LessOrEqual(t, port, 50100)
}

func TestFindAvailablePort_NoneAvailable(t *testing.T) {
	scanner := NewScanner()
	port := listenTCP(t)

	_, err := scanner.FindAvailablePort(port, port, "tcp")
	assert.ErrorContains(t, err, "no available tcp port")
}

func TestFindAvailablePort_InvalidRange(t *testing.T) {
	_, err := NewScanner().FindAvailablePort(9000, 8000, "tcp")
	assert.ErrorContains(t, err, "invalid port range")
}
