package transport

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

var unixTestCounter uint64

func serveOnce(t *testing.T, listener net.Listener, serverLogic func(net.Conn)) func() {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		serverLogic(conn)
		conn.Close()
	}()

	return func() {
		listener.Close()
		<-done
	}
}

func setupTcpTestServer(t *testing.T, serverLogic func(net.Conn)) (string, uint16, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create test server: %v", err)
	}

	addr := listener.Addr().(*net.TCPAddr)
	return addr.IP.String(), uint16(addr.Port), serveOnce(t, listener, serverLogic)
}

func setupUnixTestServer(t *testing.T, serverLogic func(net.Conn)) (string, func()) {
	t.Helper()

	count := atomic.AddUint64(&unixTestCounter, 1)
	socketPath := filepath.Join(t.TempDir(), fmt.Sprintf("httpc_%d.sock", count))

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("Failed to create Unix test server: %v", err)
	}

	cleanup := serveOnce(t, listener, serverLogic)
	return socketPath, func() {
		cleanup()
		os.Remove(socketPath)
	}
}
