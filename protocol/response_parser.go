package protocol

import (
	"regexp"
	"strings"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// LineSource yields successive lines of a response stream.
type LineSource interface {
	// ReadLine returns the next line without its terminator; ok is false at
	// end of stream.
	ReadLine() (line string, ok bool, err error)
	// LinesRead reports how many lines were consumed before.
	LinesRead() int
}

type parserState int

const (
	eFirstLine parserState = iota + 1
	eHeaders
	eBody
)

// ResponseParser turns a line source into a Response. It holds only
// compiled patterns and is safe for concurrent use.
type ResponseParser struct {
	statusLine *regexp.Regexp
	headerLine *regexp.Regexp

	versionIdx, codeIdx, reasonIdx int
	keyIdx, valueIdx               int
}

// NewResponseParser compiles the status and header line patterns.
func NewResponseParser() *ResponseParser {
	p := &ResponseParser{
		statusLine: regexp.MustCompile(`^(?P<version>HTTP/[12]\.\d)\s(?P<code>[0-9]{3})(?:\s(?P<reason>.*))?$`),
		headerLine: regexp.MustCompile(`^(?P<key>[^:]+):[ \t]*(?P<value>.*?)[ \t]*$`),
	}

	p.versionIdx = p.statusLine.SubexpIndex("version")
	p.codeIdx = p.statusLine.SubexpIndex("code")
	p.reasonIdx = p.statusLine.SubexpIndex("reason")
	p.keyIdx = p.headerLine.SubexpIndex("key")
	p.valueIdx = p.headerLine.SubexpIndex("value")

	return p
}

// Parse consumes src to end of stream. The status line comes first, then
// "Key: Value" lines up to the first empty line, then the body. Body lines
// are joined with "\n". A repeated header keeps its last value.
//
// src must not have been read from before.
func (p *ResponseParser) Parse(src LineSource) (*Response, error) {
	if n := src.LinesRead(); n > 0 {
		return nil, httperrors.NewHttpErrorf(httperrors.StaleStream, "%d lines already consumed", n)
	}

	resp := &Response{Headers: make(map[string]string)}
	state := eFirstLine

	var body strings.Builder

	for {
		line, ok, err := src.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		switch state {
		case eFirstLine:
			m := p.statusLine.FindStringSubmatch(line)
			if m == nil {
				return nil, httperrors.NewHttpErrorf(httperrors.HttpParseFailure, "bad status line %q", line)
			}
			resp.Version = m[p.versionIdx]
			resp.StatusCode = m[p.codeIdx]
			resp.Reason = m[p.reasonIdx]
			state = eHeaders

		case eHeaders:
			if line == "" {
				state = eBody
				continue
			}

			m := p.headerLine.FindStringSubmatch(line)
			if m == nil {
				return nil, httperrors.NewHttpErrorf(httperrors.HeaderParseFailure, "bad header line %q", line)
			}
			resp.Headers[m[p.keyIdx]] = m[p.valueIdx]

		case eBody:
			body.WriteByte('\n')
			body.WriteString(line)
		}
	}

	if state == eFirstLine {
		return nil, httperrors.NewHttpErrorf(httperrors.HttpParseFailure, "stream ended before the status line")
	}

	// every body line was preceded by a separator; drop the first one.
	// A body with no lines has nothing to drop.
	resp.Body = strings.TrimPrefix(body.String(), "\n")

	return resp, nil
}
