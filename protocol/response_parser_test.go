package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// sliceSource replays fixed lines.
type sliceSource struct {
	lines []string
	pos   int
	err   error
}

func newSource(lines ...string) *sliceSource {
	return &sliceSource{lines: lines}
}

func (s *sliceSource) ReadLine() (string, bool, error) {
	if s.pos >= len(s.lines) {
		if s.err != nil {
			return "", false, s.err
		}
		return "", false, nil
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true, nil
}

func (s *sliceSource) LinesRead() int {
	return s.pos
}

func TestResponseParser(t *testing.T) {
	parser := NewResponseParser()

	t.Run("status line", func(t *testing.T) {
		resp, err := parser.Parse(newSource("HTTP/1.1 200 OK"))
		require.NoError(t, err)
		require.Equal(t, "HTTP/1.1", resp.Version)
		require.Equal(t, "200", resp.StatusCode)
		require.Equal(t, "OK", resp.Reason)
		require.Empty(t, resp.Headers)
		require.Empty(t, resp.Body)
	})

	t.Run("status line without reason", func(t *testing.T) {
		resp, err := parser.Parse(newSource("HTTP/2.0 204"))
		require.NoError(t, err)
		require.Equal(t, "HTTP/2.0", resp.Version)
		require.Equal(t, "204", resp.StatusCode)
		require.Empty(t, resp.Reason)
	})

	t.Run("last header wins", func(t *testing.T) {
		resp, err := parser.Parse(newSource("HTTP/1.1 200 OK", "X: 1", "X: 2", ""))
		require.NoError(t, err)
		require.Equal(t, map[string]string{"X": "2"}, resp.Headers)
	})

	t.Run("header keys keep their case", func(t *testing.T) {
		resp, err := parser.Parse(newSource("HTTP/1.1 200 OK", "Hello: world", "hello: nether", ""))
		require.NoError(t, err)
		require.Equal(t, map[string]string{"Hello": "world", "hello": "nether"}, resp.Headers)
	})

	t.Run("header value with colons", func(t *testing.T) {
		resp, err := parser.Parse(newSource("HTTP/1.1 301 Moved Permanently", "Location: http://h2:8080/new", ""))
		require.NoError(t, err)
		require.Equal(t, "http://h2:8080/new", resp.Headers["Location"])
	})

	t.Run("body reconstruction", func(t *testing.T) {
		resp, err := parser.Parse(newSource("HTTP/1.1 200 OK", "A: b", "", "foo", "", "bar"))
		require.NoError(t, err)
		require.Equal(t, "foo\n\nbar", resp.Body)
	})

	t.Run("trailing blank body lines", func(t *testing.T) {
		resp, err := parser.Parse(newSource("HTTP/1.1 200 OK", "", "foo", "", ""))
		require.NoError(t, err)
		require.Equal(t, "foo\n\n", resp.Body)
	})

	t.Run("zero line body", func(t *testing.T) {
		resp, err := parser.Parse(newSource("HTTP/1.1 200 OK", "Content-Length: 0", ""))
		require.NoError(t, err)
		require.Equal(t, "", resp.Body)
	})

	t.Run("body lines look like headers", func(t *testing.T) {
		resp, err := parser.Parse(newSource("HTTP/1.1 200 OK", "", "X: not a header"))
		require.NoError(t, err)
		require.Empty(t, resp.Headers)
		require.Equal(t, "X: not a header", resp.Body)
	})

	t.Run("stream ends inside headers", func(t *testing.T) {
		resp, err := parser.Parse(newSource("HTTP/1.1 200 OK", "A: b"))
		require.NoError(t, err)
		require.Equal(t, "b", resp.Headers["A"])
		require.Empty(t, resp.Body)
	})
}

func TestResponseParser_Failures(t *testing.T) {
	parser := NewResponseParser()

	tcs := []struct {
		name  string
		lines []string
		kind  httperrors.HttpClientError
	}{
		{name: "empty stream", lines: nil, kind: httperrors.HttpParseFailure},
		{name: "not http", lines: []string{"SSH-2.0-OpenSSH_9.0"}, kind: httperrors.HttpParseFailure},
		{name: "unsupported version", lines: []string{"HTTP/3.0 200 OK"}, kind: httperrors.HttpParseFailure},
		{name: "short code", lines: []string{"HTTP/1.1 20 OK"}, kind: httperrors.HttpParseFailure},
		{name: "long code", lines: []string{"HTTP/1.1 2000 OK"}, kind: httperrors.HttpParseFailure},
		{name: "header without colon", lines: []string{"HTTP/1.1 200 OK", "garbage"}, kind: httperrors.HeaderParseFailure},
		{name: "header without key", lines: []string{"HTTP/1.1 200 OK", ": value"}, kind: httperrors.HeaderParseFailure},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := parser.Parse(newSource(tc.lines...))
			require.Nil(t, resp)
			require.True(t, httperrors.IsHttp(err, tc.kind), "got %v", err)
		})
	}
}

func TestResponseParser_StaleStream(t *testing.T) {
	src := newSource("HTTP/1.1 200 OK", "", "body")
	_, _, err := src.ReadLine()
	require.NoError(t, err)

	resp, err := NewResponseParser().Parse(src)
	require.Nil(t, resp)
	require.True(t, httperrors.IsHttp(err, httperrors.StaleStream), "got %v", err)
}

func TestResponseParser_SourceError(t *testing.T) {
	src := newSource("HTTP/1.1 200 OK", "")
	src.err = httperrors.NewTransportError(httperrors.SocketReadFailure, errors.New("reset"))

	resp, err := NewResponseParser().Parse(src)
	require.Nil(t, resp)
	require.True(t, httperrors.IsTransport(err, httperrors.SocketReadFailure), "got %v", err)
}

func TestResponseParser_LargeBody(t *testing.T) {
	lines := []string{"HTTP/1.1 200 OK", ""}
	want := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		want = append(want, strings.Repeat("x", i%17))
	}
	lines = append(lines, want...)

	resp, err := NewResponseParser().Parse(newSource(lines...))
	require.NoError(t, err)
	require.Equal(t, strings.Join(want, "\n"), resp.Body)
}
