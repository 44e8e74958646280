package transport

import (
	"io"
	"net"
	"time"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// Conn exposes a connected Transport as a net.Conn so that stream layers
// such as crypto/tls can sit on top of any engine. Reads that hit a closed
// connection surface as io.EOF. Deadlines are not supported and are ignored.
func Conn(t Transport) net.Conn {
	return &transportConn{t: t}
}

type transportConn struct {
	t Transport
}

func (c *transportConn) Read(b []byte) (int, error) {
	n, err := c.t.Read(b)
	if err != nil && httperrors.IsTransport(err, httperrors.ConnectionClosed) {
		return n, io.EOF
	}
	return n, err
}

func (c *transportConn) Write(b []byte) (int, error) {
	return WriteAll(c.t, b)
}

func (c *transportConn) Close() error {
	return c.t.Close()
}

func (c *transportConn) LocalAddr() net.Addr  { return transportAddr{} }
func (c *transportConn) RemoteAddr() net.Addr { return transportAddr{} }

func (c *transportConn) SetDeadline(time.Time) error      { return nil }
func (c *transportConn) SetReadDeadline(time.Time) error  { return nil }
func (c *transportConn) SetWriteDeadline(time.Time) error { return nil }

type transportAddr struct{}

func (transportAddr) Network() string { return "transport" }
func (transportAddr) String() string  { return "transport" }
