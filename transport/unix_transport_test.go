package transport

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

func TestUnixTransport_RoundTrip(t *testing.T) {
	path, cleanup := setupUnixTestServer(t, func(conn net.Conn) {
		buf := make([]byte, 1024)
		n, _ := conn.Read(buf)
		conn.Write(append([]byte("echo: "), buf[:n]...))
	})
	defer cleanup()

	// the configured path wins over the host argument
	transport := NewUnixTransport(path)
	require.NoError(t, transport.Connect("example.com", 80))
	defer transport.Close()

	_, err := transport.Write([]byte("ping"))
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := transport.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "echo: ping", string(buf[:n]))
}

func TestUnixTransport_HostAsPath(t *testing.T) {
	path, cleanup := setupUnixTestServer(t, func(conn net.Conn) {})
	defer cleanup()

	transport := NewUnixTransport("")
	require.NoError(t, transport.Connect(path, 0))
	require.NoError(t, transport.Close())
	require.NoError(t, transport.Close())
}

func TestUnixTransport_Connect_Failure_NoSocket(t *testing.T) {
	transport := NewUnixTransport(filepath.Join(t.TempDir(), "missing.sock"))
	err := transport.Connect("", 0)

	require.True(t, httperrors.IsTransport(err, httperrors.SocketConnectFailure), "got %v", err)
}
