package client

import (
	"crypto/tls"

	"github.com/nczempin/0004_std_lib_http_client/httpc/transport"
)

// DefaultMaxRedirects bounds how many 301 hops one call follows.
const DefaultMaxRedirects = 10

// DialFunc returns an unconnected transport for a URL scheme.
type DialFunc func(scheme string) (transport.Transport, error)

// Option configures a Client.
type Option func(*Client)

// WithEngine selects the transport engine (see transport.New).
func WithEngine(engine string) Option {
	return func(c *Client) {
		c.engine = engine
	}
}

// WithPorts overrides the ports dialed for http and https URLs.
func WithPorts(http, https uint16) Option {
	return func(c *Client) {
		c.ports = map[string]uint16{
			"http":  http,
			"https": https,
		}
	}
}

// WithMaxRedirects sets the redirect hop bound. Zero disables following:
// a 301 is returned to the caller as is.
func WithMaxRedirects(n int) Option {
	return func(c *Client) {
		c.maxRedirects = n
	}
}

// WithTLSConfig sets the TLS configuration for https URLs.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		c.tlsConfig = cfg
	}
}

// WithUnixSocket sends every request over the Unix socket at path.
func WithUnixSocket(path string) Option {
	return func(c *Client) {
		c.unixSocket = path
	}
}

// WithDialer replaces transport construction entirely.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) {
		c.dial = dial
	}
}

// WithDefaultHeaders sets headers sent with every request unless the
// request sets the same key.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.defaultHeaders = headers
	}
}

// WithUserAgent sets the user agent used when a request has none.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}
