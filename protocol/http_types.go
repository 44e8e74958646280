package protocol

import (
	"net/url"
	"strconv"
	"strings"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// Method represents HTTP request methods
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
)

var methodTokens = [...]string{
	MethodGet:    "GET",
	MethodPost:   "POST",
	MethodPut:    "PUT",
	MethodDelete: "DELETE",
}

// String returns the wire token of the method
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodTokens) {
		return "UNKNOWN"
	}
	return methodTokens[m]
}

// ParseMethod maps a wire token (any case) back to a Method
func ParseMethod(token string) (Method, bool) {
	for m, t := range methodTokens {
		if strings.EqualFold(t, token) {
			return Method(m), true
		}
	}
	return 0, false
}

// hasBody reports whether the method carries raw data on the wire
func (m Method) hasBody() bool {
	return m == MethodPost || m == MethodPut
}

// RequestConfig is the caller's intent for one logical call.
// It is not modified after construction; NewRequestConfig copies the maps.
type RequestConfig struct {
	URL       *url.URL
	Query     map[string]string
	Headers   map[string]string
	UserAgent string
	// RawData is the POST/PUT body; nil means no body
	RawData []byte
}

// NewRequestConfig parses rawURL and snapshots the optional inputs.
// Nil maps, an empty user agent and nil raw data mean "not supplied".
func NewRequestConfig(rawURL string, query, headers map[string]string, userAgent string, rawData []byte) (RequestConfig, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RequestConfig{}, httperrors.NewHttpError(httperrors.UrlParseFailure, err)
	}
	if u.Scheme == "" {
		return RequestConfig{}, httperrors.NewHttpErrorf(httperrors.UrlParseFailure, "relative URL without scheme: %q", rawURL)
	}

	return RequestConfig{
		URL:       u,
		Query:     copyMap(query),
		Headers:   copyMap(headers),
		UserAgent: userAgent,
		RawData:   rawData,
	}, nil
}

// RedirectConfig builds the config for following a redirect to target:
// query, headers and user agent carry over, the body does not.
func RedirectConfig(from RequestConfig, target *url.URL) RequestConfig {
	return RequestConfig{
		URL:       target,
		Query:     copyMap(from.Query),
		Headers:   copyMap(from.Headers),
		UserAgent: from.UserAgent,
	}
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Request is a RequestConfig prepared for a specific method.
type Request struct {
	Config RequestConfig
	// Host is the URL host used for dialing and the Host header
	Host string
	// Text is the wire request, valid only after Setup
	Text string
	// MethodUsed is the method of the last Setup; redirects replay it
	MethodUsed Method
}

// NewRequest wraps config. Call Setup before sending.
func NewRequest(config RequestConfig) *Request {
	return &Request{Config: config}
}

// Setup renders the request for method, replacing any earlier rendering.
func (r *Request) Setup(method Method) error {
	r.MethodUsed = method
	r.Text = ""

	text, host, err := BuildRequest(r.Config, method)
	if err != nil {
		return err
	}

	r.Host = host
	r.Text = text
	return nil
}

// Response is a fully parsed HTTP response
type Response struct {
	Version    string            `json:"version"`
	StatusCode string            `json:"status_code"`
	Reason     string            `json:"reason,omitempty"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// Code returns the status code as an integer
func (r *Response) Code() int {
	code, _ := strconv.Atoi(r.StatusCode)
	return code
}

// Header looks key up as received, falling back to a case-insensitive match.
func (r *Response) Header(key string) (string, bool) {
	if v, ok := r.Headers[key]; ok {
		return v, true
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
