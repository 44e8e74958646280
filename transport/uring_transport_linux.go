//go:build linux

package transport

import (
	"syscall"

	"github.com/iceber/iouring-go"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// UringTransport implements Transport over TCP using io_uring for the
// connect, send and receive calls.
type UringTransport struct {
	iour *iouring.IOURing
	fd   int
}

// NewUringTransport creates a new TCP transport with io_uring
func NewUringTransport() (*UringTransport, error) {
	// Create io_uring instance with queue depth of 32
	iour, err := iouring.New(32)
	if err != nil {
		return nil, httperrors.NewTransportError(httperrors.IoUringInit, err)
	}

	return &UringTransport{
		iour: iour,
		fd:   -1,
	}, nil
}

// Connect establishes a TCP connection using io_uring
func (t *UringTransport) Connect(host string, port uint16) error {
	if t.iour == nil {
		return httperrors.NewTransportError(httperrors.InitFailure, nil)
	}
	if t.fd >= 0 {
		return httperrors.NewTransportError(httperrors.SocketConnectFailure, nil)
	}

	sa, family, err := resolveSockaddr(host, port)
	if err != nil {
		return err
	}

	fd, err := syscall.Socket(family, syscall.SOCK_STREAM, 0)
	if err != nil {
		return httperrors.NewTransportError(httperrors.SocketCreateFailure, err)
	}

	if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1); err != nil {
		syscall.Close(fd)
		return httperrors.NewTransportError(httperrors.InitFailure, err)
	}

	prep, err := iouring.Connect(fd, sa)
	if err != nil {
		syscall.Close(fd)
		return httperrors.NewTransportError(httperrors.IoUringSubmit, err)
	}

	ch := make(chan iouring.Result, 1)
	if _, err := t.iour.SubmitRequest(prep, ch); err != nil {
		syscall.Close(fd)
		return httperrors.NewTransportError(httperrors.IoUringSubmit, err)
	}

	result := <-ch
	if _, err := result.ReturnInt(); err != nil {
		syscall.Close(fd)
		return httperrors.NewTransportError(httperrors.SocketConnectFailure, err)
	}

	t.fd = fd
	return nil
}

// Write sends data over the connection using io_uring
func (t *UringTransport) Write(buf []byte) (int, error) {
	if t.fd < 0 {
		return 0, httperrors.NewTransportError(httperrors.SocketWriteFailure, nil)
	}

	totalWritten := 0
	for totalWritten < len(buf) {
		ch := make(chan iouring.Result, 1)
		if _, err := t.iour.SubmitRequest(iouring.Send(t.fd, buf[totalWritten:], 0), ch); err != nil {
			return totalWritten, httperrors.NewTransportError(httperrors.IoUringSubmit, err)
		}

		result := <-ch
		n, err := result.ReturnInt()
		if err != nil {
			return totalWritten, httperrors.NewTransportError(httperrors.SocketWriteFailure, err)
		}
		if n <= 0 {
			return totalWritten, httperrors.NewTransportError(httperrors.ConnectionClosed, nil)
		}

		totalWritten += n
	}

	return totalWritten, nil
}

// Read receives data from the connection using io_uring
func (t *UringTransport) Read(buf []byte) (int, error) {
	if t.fd < 0 {
		return 0, httperrors.NewTransportError(httperrors.SocketReadFailure, nil)
	}

	ch := make(chan iouring.Result, 1)
	if _, err := t.iour.SubmitRequest(iouring.Recv(t.fd, buf, 0), ch); err != nil {
		return 0, httperrors.NewTransportError(httperrors.IoUringSubmit, err)
	}

	result := <-ch
	n, err := result.ReturnInt()
	if err != nil {
		return 0, httperrors.NewTransportError(httperrors.SocketReadFailure, err)
	}

	if n == 0 && len(buf) > 0 {
		return 0, httperrors.NewTransportError(httperrors.ConnectionClosed, nil)
	}

	return n, nil
}

// Close closes the socket and releases the ring. The transport cannot be
// reconnected afterwards.
func (t *UringTransport) Close() error {
	var closeErr error
	if t.fd >= 0 {
		if err := syscall.Close(t.fd); err != nil {
			closeErr = httperrors.NewTransportError(httperrors.SocketCloseFailure, err)
		}
		t.fd = -1
	}

	if t.iour != nil {
		t.iour.Close()
		t.iour = nil
	}

	return closeErr
}
