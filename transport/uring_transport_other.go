//go:build !linux

package transport

import (
	"fmt"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

var errUringUnsupported = fmt.Errorf("io_uring requires linux")

// UringTransport is unavailable outside linux.
type UringTransport struct{}

// UringTransportV2 is unavailable outside linux.
type UringTransportV2 struct{}

func NewUringTransport() (*UringTransport, error) {
	return nil, httperrors.NewTransportError(httperrors.IoUringInit, errUringUnsupported)
}

func NewUringTransportV2() (*UringTransportV2, error) {
	return nil, httperrors.NewTransportError(httperrors.IoUringInit, errUringUnsupported)
}

func (t *UringTransport) Connect(string, uint16) error {
	return httperrors.NewTransportError(httperrors.InitFailure, errUringUnsupported)
}
func (t *UringTransport) Write([]byte) (int, error) {
	return 0, httperrors.NewTransportError(httperrors.SocketWriteFailure, errUringUnsupported)
}
func (t *UringTransport) Read([]byte) (int, error) {
	return 0, httperrors.NewTransportError(httperrors.SocketReadFailure, errUringUnsupported)
}
func (t *UringTransport) Close() error { return nil }

func (t *UringTransportV2) Connect(string, uint16) error {
	return httperrors.NewTransportError(httperrors.InitFailure, errUringUnsupported)
}
func (t *UringTransportV2) Write([]byte) (int, error) {
	return 0, httperrors.NewTransportError(httperrors.SocketWriteFailure, errUringUnsupported)
}
func (t *UringTransportV2) Read([]byte) (int, error) {
	return 0, httperrors.NewTransportError(httperrors.SocketReadFailure, errUringUnsupported)
}
func (t *UringTransportV2) Close() error { return nil }
