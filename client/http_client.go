package client

import (
	"crypto/tls"
	"log/slog"

	"github.com/google/uuid"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
	"github.com/nczempin/0004_std_lib_http_client/httpc/log"
	"github.com/nczempin/0004_std_lib_http_client/httpc/protocol"
	"github.com/nczempin/0004_std_lib_http_client/httpc/transport"
)

// Client sends one request per connection and follows 301 redirects.
// It holds no per-call state and may be shared between goroutines.
type Client struct {
	engine         string
	ports          map[string]uint16
	maxRedirects   int
	tlsConfig      *tls.Config
	unixSocket     string
	dial           DialFunc
	defaultHeaders map[string]string
	userAgent      string
	parser         *protocol.ResponseParser
}

// New creates a Client. Without options it dials plain TCP on port 80 for
// http and TLS on port 443 for https.
func New(opts ...Option) *Client {
	c := &Client{
		engine: transport.EngineNet,
		ports: map[string]uint16{
			"http":  80,
			"https": 443,
		},
		maxRedirects: DefaultMaxRedirects,
		parser:       protocol.NewResponseParser(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dial == nil {
		c.dial = c.newTransport
	}
	return c
}

// Get performs a GET request
func (c *Client) Get(cfg protocol.RequestConfig) (*protocol.Response, error) {
	return c.Execute(protocol.MethodGet, cfg)
}

// Post performs a POST request
func (c *Client) Post(cfg protocol.RequestConfig) (*protocol.Response, error) {
	return c.Execute(protocol.MethodPost, cfg)
}

// Put performs a PUT request
func (c *Client) Put(cfg protocol.RequestConfig) (*protocol.Response, error) {
	return c.Execute(protocol.MethodPut, cfg)
}

// Delete performs a DELETE request
func (c *Client) Delete(cfg protocol.RequestConfig) (*protocol.Response, error) {
	return c.Execute(protocol.MethodDelete, cfg)
}

// Execute sends cfg with method and returns the parsed response.
//
// A URL whose scheme has no configured port (anything but http and https by
// default) yields a nil response and a nil error.
func (c *Client) Execute(method protocol.Method, cfg protocol.RequestConfig) (*protocol.Response, error) {
	logger := log.With("request_id", uuid.New().String())
	return c.execute(protocol.NewRequest(c.withDefaults(cfg)), method, 0, logger)
}

func (c *Client) execute(req *protocol.Request, method protocol.Method, hops int, logger *slog.Logger) (*protocol.Response, error) {
	scheme := req.Config.URL.Scheme
	port, ok := c.ports[scheme]
	if !ok {
		logger.Debug("unsupported scheme, no request sent", "scheme", scheme)
		return nil, nil
	}

	if err := req.Setup(method); err != nil {
		return nil, err
	}

	resp, err := c.roundTrip(req, port, logger)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != "301" || c.maxRedirects <= 0 {
		return resp, nil
	}

	return c.redirect(req, resp, hops, logger)
}

// redirect replays req's method against the response's Location.
func (c *Client) redirect(req *protocol.Request, resp *protocol.Response, hops int, logger *slog.Logger) (*protocol.Response, error) {
	location, ok := resp.Header("Location")
	if !ok {
		return nil, httperrors.NewHttpErrorf(httperrors.MissingLocation, "%s %s", req.MethodUsed, req.Config.URL)
	}

	if hops >= c.maxRedirects {
		return nil, httperrors.NewHttpErrorf(httperrors.TooManyRedirects, "stopped after %d hops at %s", hops, location)
	}

	target, err := req.Config.URL.Parse(location)
	if err != nil {
		return nil, httperrors.NewHttpError(httperrors.UrlParseFailure, err)
	}

	logger.Debug("following redirect", "hop", hops+1, "location", target.String(), "method", req.MethodUsed.String())

	next := protocol.NewRequest(protocol.RedirectConfig(req.Config, target))
	return c.execute(next, req.MethodUsed, hops+1, logger)
}

func (c *Client) roundTrip(req *protocol.Request, port uint16, logger *slog.Logger) (*protocol.Response, error) {
	t, err := c.dial(req.Config.URL.Scheme)
	if err != nil {
		return nil, err
	}

	// engines may hold resources before connecting, close unconditionally
	defer t.Close()

	logger.Debug("connecting", "host", req.Host, "port", port, "engine", c.engine)
	if err := t.Connect(req.Host, port); err != nil {
		return nil, err
	}

	logger.Debug("sending request", "method", req.MethodUsed.String(), "url", req.Config.URL.String(), "bytes", len(req.Text))
	if _, err := transport.WriteAll(t, []byte(req.Text)); err != nil {
		return nil, err
	}

	resp, err := c.parser.Parse(transport.Lines(t))
	if err != nil {
		return nil, err
	}

	logger.Debug("response received", "status", resp.StatusCode, "headers", len(resp.Headers), "body_bytes", len(resp.Body))
	return resp, nil
}

// newTransport is the default DialFunc.
func (c *Client) newTransport(scheme string) (transport.Transport, error) {
	var t transport.Transport
	if c.unixSocket != "" {
		t = transport.NewUnixTransport(c.unixSocket)
	} else {
		var err error
		if t, err = transport.New(c.engine); err != nil {
			return nil, err
		}
	}

	if scheme == "https" {
		t = transport.NewTlsTransport(t, c.tlsConfig)
	}
	return t, nil
}

// withDefaults fills in the client's user agent and default headers.
func (c *Client) withDefaults(cfg protocol.RequestConfig) protocol.RequestConfig {
	if cfg.UserAgent == "" {
		cfg.UserAgent = c.userAgent
	}

	if len(c.defaultHeaders) == 0 {
		return cfg
	}

	headers := make(map[string]string, len(c.defaultHeaders)+len(cfg.Headers))
	for k, v := range c.defaultHeaders {
		headers[k] = v
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	cfg.Headers = headers
	return cfg
}
