package transport

import (
	"fmt"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// Transport defines the interface for network I/O operations.
// Implementations include TCP, Unix domain sockets, io_uring backed TCP and
// TLS layered over any of them.
type Transport interface {
	// Connect establishes a connection to the specified host and port.
	// For Unix sockets, the host parameter is the socket path and port is ignored.
	Connect(host string, port uint16) error

	// Write sends data to the connected peer.
	// Returns the number of bytes written or an error.
	Write(buf []byte) (int, error)

	// Read receives data from the connected peer.
	// Returns the number of bytes read or an error.
	Read(buf []byte) (int, error)

	// Close closes the connection.
	Close() error
}

// Engine names accepted by New.
const (
	EngineNet     = "net"
	EngineUring   = "uring"
	EngineUringV2 = "uring-v2"
)

// New returns an unconnected plain-text transport for the named engine.
// An empty name selects EngineNet.
func New(engine string) (Transport, error) {
	switch engine {
	case "", EngineNet:
		return NewTcpTransport(), nil
	case EngineUring:
		t, err := NewUringTransport()
		if err != nil {
			return nil, err
		}
		return t, nil
	case EngineUringV2:
		t, err := NewUringTransportV2()
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, httperrors.NewTransportError(httperrors.InitFailure, fmt.Errorf("unknown engine %q", engine))
	}
}

// WriteAll writes buf in full, looping over short writes.
func WriteAll(t Transport, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := t.Write(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, httperrors.NewTransportError(httperrors.ConnectionClosed, nil)
		}
	}
	return total, nil
}
