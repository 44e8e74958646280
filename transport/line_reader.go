package transport

import (
	"bufio"
	"errors"
	"io"
	"strings"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// LineReader is a buffered line source over a byte stream.
type LineReader struct {
	r     *bufio.Reader
	lines int
}

// NewLineReader reads lines from r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// Lines reads lines from a connected transport.
func Lines(t Transport) *LineReader {
	return NewLineReader(Conn(t))
}

// ReadLine returns the next line without its "\n" or "\r\n" terminator.
// ok is false once the stream is exhausted. A final unterminated line is
// still returned.
func (l *LineReader) ReadLine() (line string, ok bool, err error) {
	s, err := l.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			var httpErr *httperrors.Error
			if errors.As(err, &httpErr) {
				return "", false, err
			}
			return "", false, httperrors.NewTransportError(httperrors.SocketReadFailure, err)
		}
		if s == "" {
			return "", false, nil
		}
	}

	l.lines++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, true, nil
}

// LinesRead reports how many lines have been consumed so far.
func (l *LineReader) LinesRead() int {
	return l.lines
}
