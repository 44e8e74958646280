package transport

import (
	"net"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// UnixTransport implements the Transport interface using Unix domain sockets.
// It serves plain-text requests to local daemons; the request's Host header
// still names the URL host.
type UnixTransport struct {
	stream
	path string
}

// NewUnixTransport creates a UnixTransport that dials path on Connect.
// An empty path makes Connect dial its host argument instead.
func NewUnixTransport(path string) *UnixTransport {
	return &UnixTransport{
		path: path,
	}
}

// Connect establishes a Unix domain socket connection.
// The port parameter is ignored for Unix sockets.
func (t *UnixTransport) Connect(host string, port uint16) error {
	path := t.path
	if path == "" {
		path = host
	}

	conn, err := net.Dial("unix", path)
	if err != nil {
		return httperrors.NewTransportError(httperrors.SocketConnectFailure, err)
	}

	t.conn = conn
	return nil
}
