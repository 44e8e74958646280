//go:build linux

package transport

import (
	"os"
	"syscall"

	"github.com/godzie44/go-uring/uring"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// UringTransportV2 implements Transport using godzie44/go-uring for reads and
// writes. Connect is a blocking syscall; only the data path goes through the ring.
type UringTransportV2 struct {
	ring *uring.Ring
	file *os.File
}

// NewUringTransportV2 creates a new TCP transport with io_uring (v2 using godzie44/go-uring)
func NewUringTransportV2() (*UringTransportV2, error) {
	ring, err := uring.New(32)
	if err != nil {
		return nil, httperrors.NewTransportError(httperrors.IoUringInit, err)
	}

	return &UringTransportV2{
		ring: ring,
	}, nil
}

// Connect establishes a TCP connection
func (t *UringTransportV2) Connect(host string, port uint16) error {
	if t.ring == nil {
		return httperrors.NewTransportError(httperrors.InitFailure, nil)
	}
	if t.file != nil {
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

	if err := syscall.Connect(fd, sa); err != nil {
		syscall.Close(fd)
		return httperrors.NewTransportError(httperrors.SocketConnectFailure, err)
	}

	if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1); err != nil {
		syscall.Close(fd)
		return httperrors.NewTransportError(httperrors.InitFailure, err)
	}

	t.file = os.NewFile(uintptr(fd), "socket")
	return nil
}

// Write sends data over the connection using io_uring
func (t *UringTransportV2) Write(buf []byte) (int, error) {
	if t.file == nil {
		return 0, httperrors.NewTransportError(httperrors.SocketWriteFailure, nil)
	}

	totalWritten := 0
	for totalWritten < len(buf) {
		// sockets are not seekable, the offset stays zero
		n, err := t.complete(uring.Write(t.file.Fd(), buf[totalWritten:], 0), httperrors.SocketWriteFailure)
		if err != nil {
			return totalWritten, err
		}
		if n <= 0 {
			return totalWritten, httperrors.NewTransportError(httperrors.ConnectionClosed, nil)
		}

		totalWritten += n
	}

	return totalWritten, nil
}

// Read receives data from the connection using io_uring
func (t *UringTransportV2) Read(buf []byte) (int, error) {
	if t.file == nil {
		return 0, httperrors.NewTransportError(httperrors.SocketReadFailure, nil)
	}

	n, err := t.complete(uring.Read(t.file.Fd(), buf, 0), httperrors.SocketReadFailure)
	if err != nil {
		return 0, err
	}

	if n == 0 && len(buf) > 0 {
		return 0, httperrors.NewTransportError(httperrors.ConnectionClosed, nil)
	}

	return n, nil
}

// complete queues one operation, submits it and waits for its completion.
func (t *UringTransportV2) complete(op uring.Operation, failure httperrors.TransportError) (int, error) {
	if err := t.ring.QueueSQE(op, 0, 0); err != nil {
		return 0, httperrors.NewTransportError(httperrors.IoUringSubmit, err)
	}

	if _, err := t.ring.Submit(); err != nil {
		return 0, httperrors.NewTransportError(httperrors.IoUringSubmit, err)
	}

	cqe, err := t.ring.WaitCQEvents(1)
	if err != nil {
		return 0, httperrors.NewTransportError(failure, err)
	}
	defer t.ring.SeenCQE(cqe)

	if err := cqe.Error(); err != nil {
		return 0, httperrors.NewTransportError(failure, err)
	}

	return int(cqe.Res), nil
}

// Close closes the socket and releases the ring.
func (t *UringTransportV2) Close() error {
	var closeErr error
	if t.file != nil {
		if err := t.file.Close(); err != nil {
			closeErr = httperrors.NewTransportError(httperrors.SocketCloseFailure, err)
		}
		t.file = nil
	}

	if t.ring != nil {
		t.ring.Close()
		t.ring = nil
	}

	return closeErr
}
