package protocol

import (
	"sort"
	"strconv"
	"strings"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// Connection header value added when the caller supplies none.
// The token is non-standard; servers that don't know it keep their default.
const syntheticConnection = "keep-closed"

// BuildRequest renders the wire request for cfg and method and returns it
// together with the host to dial.
//
// Query pairs and headers are emitted in sorted key order. Query values are
// written verbatim, without percent-encoding. For POST and PUT, RawData is
// appended after the header block and Content-Length is added unless the
// caller set one.
func BuildRequest(cfg RequestConfig, method Method) (text string, host string, err error) {
	if cfg.URL == nil {
		return "", "", httperrors.NewHttpErrorf(httperrors.InvalidRequest, "request has no URL")
	}
	if cfg.RawData != nil && !method.hasBody() {
		return "", "", httperrors.NewHttpErrorf(httperrors.InvalidRequest, "%s request cannot have a body", method)
	}

	target := requestTarget(cfg)

	host = cfg.URL.Hostname()
	if host == "" {
		return "", "", httperrors.NewHttpErrorf(httperrors.MissingHost, "%q", cfg.URL.String())
	}

	var b strings.Builder
	b.WriteString(method.String())
	b.WriteByte(' ')
	b.WriteString(target)
	b.WriteString(" HTTP/1.1\r\n")

	b.WriteString("Host: ")
	b.WriteString(hostHeader(host))
	b.WriteString("\r\n")

	writeHeaders(&b, cfg, method)

	b.WriteString("\r\n")

	if cfg.RawData != nil {
		b.Write(cfg.RawData)
	}

	return b.String(), host, nil
}

// requestTarget joins the URL path, the URL's own query and the query map.
func requestTarget(cfg RequestConfig) string {
	target := cfg.URL.EscapedPath()
	if target == "" {
		target = "/"
	}

	hasQuery := cfg.URL.RawQuery != "" || cfg.URL.ForceQuery
	if hasQuery {
		target += "?" + cfg.URL.RawQuery
	}

	if len(cfg.Query) == 0 {
		return target
	}

	switch {
	case !hasQuery:
		target += "?"
	case cfg.URL.RawQuery != "":
		target += "&"
	}

	pairs := make([]string, 0, len(cfg.Query))
	for _, key := range sortedKeys(cfg.Query) {
		pairs = append(pairs, key+"="+cfg.Query[key])
	}

	return target + strings.Join(pairs, "&")
}

func writeHeaders(b *strings.Builder, cfg RequestConfig, method Method) {
	var hasConnection, hasUserAgent, hasContentLength bool

	for _, key := range sortedKeys(cfg.Headers) {
		switch {
		case strings.EqualFold(key, "Connection"):
			hasConnection = true
		case strings.EqualFold(key, "User-Agent"):
			hasUserAgent = true
		case strings.EqualFold(key, "Content-Length"):
			hasContentLength = true
		}

		writeHeader(b, key, cfg.Headers[key])
	}

	if cfg.UserAgent != "" && !hasUserAgent {
		writeHeader(b, "User-Agent", cfg.UserAgent)
	}

	if cfg.RawData != nil && method.hasBody() && !hasContentLength {
		writeHeader(b, "Content-Length", strconv.Itoa(len(cfg.RawData)))
	}

	if !hasConnection {
		writeHeader(b, "Connection", syntheticConnection)
	}
}

func writeHeader(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\r\n")
}

// hostHeader brackets IPv6 literals.
func hostHeader(host string) string {
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
