package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// serve answers every connection with body after reading the request head.
// Request lines are sent on the returned channel.
func serve(t *testing.T, body string) (uint16, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	lines := make(chan string, 16)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			r := bufio.NewReader(conn)
			first, _ := r.ReadString('\n')
			lines <- strings.TrimRight(first, "\r\n")
			length := 0
			for {
				line, err := r.ReadString('\n')
				if err != nil || line == "\r\n" {
					break
				}
				if k, v, ok := strings.Cut(line, ":"); ok && strings.EqualFold(k, "Content-Length") {
					length, _ = strconv.Atoi(strings.TrimSpace(v))
				}
			}
			io.CopyN(io.Discard, r, int64(length))
			fmt.Fprintf(conn, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nConnection: close\r\n\r\n%s", body)
			conn.Close()
		}
	}()

	return uint16(ln.Addr().(*net.TCPAddr).Port), lines
}

func writeConfig(t *testing.T, port uint16) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("ports:\n  http: %d\n", port)), 0644))
	return path
}

func run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGet(t *testing.T) {
	port, lines := serve(t, "hello")
	path := writeConfig(t, port)

	out, _, err := run("--config", path, "get", "http://127.0.0.1/greet", "-q", "name=world")
	require.NoError(t, err)
	require.Equal(t, "hello\n", out)
	require.Equal(t, "GET /greet?name=world HTTP/1.1", <-lines)
}

func TestGet_Verbose(t *testing.T) {
	port, _ := serve(t, "hello")
	path := writeConfig(t, port)

	out, _, err := run("--config", path, "-v", "get", "http://127.0.0.1/")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "HTTP/1.1 200 OK\n"), out)
	require.Contains(t, out, "HEADER")
	require.Contains(t, out, "Content-Type")
	require.Contains(t, out, "text/plain")
	require.True(t, strings.HasSuffix(out, "hello\n"), out)
}

func TestGet_JSONMultipleURLs(t *testing.T) {
	port, lines := serve(t, "hi")
	path := writeConfig(t, port)

	out, _, err := run("--config", path, "--json", "get", "http://127.0.0.1/a", "http://127.0.0.1/b")
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(out))
	var urls []string
	for dec.More() {
		var resp struct {
			URL        string `json:"url"`
			StatusCode string `json:"status_code"`
			Body       string `json:"body"`
		}
		require.NoError(t, dec.Decode(&resp))
		require.Equal(t, "200", resp.StatusCode)
		require.Equal(t, "hi", resp.Body)
		urls = append(urls, resp.URL)
	}
	require.Equal(t, []string{"http://127.0.0.1/a", "http://127.0.0.1/b"}, urls, "output keeps argument order")

	got := []string{<-lines, <-lines}
	require.ElementsMatch(t, []string{"GET /a HTTP/1.1", "GET /b HTTP/1.1"}, got)
}

func TestPost_Data(t *testing.T) {
	port, lines := serve(t, "created")
	path := writeConfig(t, port)

	out, _, err := run("--config", path, "post", "http://127.0.0.1/items", "-d", "x=1", "-H", "X-Trace: abc")
	require.NoError(t, err)
	require.Equal(t, "created\n", out)
	require.Equal(t, "POST /items HTTP/1.1", <-lines)
}

func TestUnsupportedScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	out, errOut, err := run("--config", path, "get", "ftp://example.com/file")
	require.Error(t, err)
	require.Empty(t, out)
	require.Contains(t, errOut, "no response for ftp://example.com/file")
}

func TestEngineOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, _, err := run("--config", path, "--engine", "bogus", "get", "http://127.0.0.1/")
	require.ErrorContains(t, err, "engine:")
}

func TestGet_RejectsData(t *testing.T) {
	_, _, err := run("get", "http://127.0.0.1/", "-d", "x")
	require.ErrorContains(t, err, "unknown shorthand flag")
}

func TestParsePairs(t *testing.T) {
	tcs := []struct {
		name  string
		items []string
		sep   string
		want  map[string]string
		err   bool
	}{
		{name: "none", sep: "="},
		{name: "query", items: []string{"a=1", "b=x=y"}, sep: "=", want: map[string]string{"a": "1", "b": "x=y"}},
		{name: "header", items: []string{"Accept: text/html", "X-Empty:"}, sep: ":", want: map[string]string{"Accept": "text/html", "X-Empty": ""}},
		{name: "duplicate", items: []string{"a=1", "a=2"}, sep: "=", want: map[string]string{"a": "2"}},
		{name: "no separator", items: []string{"novalue"}, sep: "=", err: true},
		{name: "empty key", items: []string{": v"}, sep: ":", err: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePairs(tc.items, tc.sep)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
