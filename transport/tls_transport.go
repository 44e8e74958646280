package transport

import (
	"crypto/tls"
	"errors"
	"io"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// TlsTransport layers a TLS client session over another Transport.
// Certificate validation follows the supplied tls.Config.
type TlsTransport struct {
	inner  Transport
	config *tls.Config
	conn   *tls.Conn
}

// NewTlsTransport wraps inner. A nil config means the system defaults.
func NewTlsTransport(inner Transport, config *tls.Config) *TlsTransport {
	return &TlsTransport{
		inner:  inner,
		config: config,
	}
}

// Connect connects the inner transport and performs the client handshake,
// using host for SNI unless the config names a server.
func (t *TlsTransport) Connect(host string, port uint16) error {
	if err := t.inner.Connect(host, port); err != nil {
		return err
	}

	cfg := &tls.Config{}
	if t.config != nil {
		cfg = t.config.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}

	conn := tls.Client(Conn(t.inner), cfg)
	if err := conn.Handshake(); err != nil {
		t.inner.Close()
		return httperrors.NewTransportError(httperrors.TlsHandshakeFailure, err)
	}

	t.conn = conn
	return nil
}

// Write sends data over the TLS session
func (t *TlsTransport) Write(buf []byte) (int, error) {
	if t.conn == nil {
		return 0, httperrors.NewTransportError(httperrors.SocketWriteFailure, nil)
	}

	n, err := t.conn.Write(buf)
	if err != nil {
		return n, httperrors.NewTransportError(httperrors.SocketWriteFailure, err)
	}
	return n, nil
}

// Read receives data from the TLS session
func (t *TlsTransport) Read(buf []byte) (int, error) {
	if t.conn == nil {
		return 0, httperrors.NewTransportError(httperrors.SocketReadFailure, nil)
	}

	n, err := t.conn.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, httperrors.NewTransportError(httperrors.ConnectionClosed, err)
		}
		return n, httperrors.NewTransportError(httperrors.SocketReadFailure, err)
	}
	return n, nil
}

// Close ends the TLS session and the inner connection
func (t *TlsTransport) Close() error {
	if t.conn == nil {
		return t.inner.Close()
	}

	t.conn.Close()
	t.conn = nil

	return t.inner.Close()
}
