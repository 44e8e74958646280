package transport

import (
	"errors"
	"io"
	"net"
	"strconv"
	"syscall"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// stream carries the net.Conn engines' read, write and close paths.
//
// Only a clean end of stream is ConnectionClosed on read. A reset while a
// response is in flight is a SocketReadFailure so the parser never mistakes
// a truncated body for a complete one.
type stream struct {
	conn net.Conn
}

func (s *stream) Write(buf []byte) (int, error) {
	if s.conn == nil {
		return 0, httperrors.NewTransportError(httperrors.SocketWriteFailure, nil)
	}

	n, err := s.conn.Write(buf)
	if err == nil {
		return n, nil
	}
	// the server hung up before taking the whole request
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		return n, httperrors.NewTransportError(httperrors.ConnectionClosed, err)
	}
	return n, httperrors.NewTransportError(httperrors.SocketWriteFailure, err)
}

func (s *stream) Read(buf []byte) (int, error) {
	if s.conn == nil {
		return 0, httperrors.NewTransportError(httperrors.SocketReadFailure, nil)
	}

	n, err := s.conn.Read(buf)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF):
		return n, httperrors.NewTransportError(httperrors.ConnectionClosed, err)
	default:
		return n, httperrors.NewTransportError(httperrors.SocketReadFailure, err)
	}
}

// Close is safe to call more than once.
func (s *stream) Close() error {
	if s.conn == nil {
		return nil
	}

	conn := s.conn
	s.conn = nil
	if err := conn.Close(); err != nil {
		return httperrors.NewTransportError(httperrors.SocketCloseFailure, err)
	}
	return nil
}

// TcpTransport is the "net" engine: one TCP connection per request,
// Nagle disabled since the request goes out in a single write.
type TcpTransport struct {
	stream
}

func NewTcpTransport() *TcpTransport {
	return &TcpTransport{}
}

// Connect dials host:port. Resolution failures are reported as DnsFailure,
// everything else as SocketConnectFailure.
func (t *TcpTransport) Connect(host string, port uint16) error {
	conn, err := net.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		return classifyDialError(err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			conn.Close()
			return httperrors.NewTransportError(httperrors.InitFailure, err)
		}
	}

	t.conn = conn
	return nil
}

func classifyDialError(err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return httperrors.NewTransportError(httperrors.DnsFailure, err)
	}
	return httperrors.NewTransportError(httperrors.SocketConnectFailure, err)
}
