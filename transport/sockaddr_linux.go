//go:build linux

package transport

import (
	"fmt"
	"net"
	"syscall"

	httperrors "github.com/nczempin/0004_std_lib_http_client/httpc/errors"
)

// resolveSockaddr resolves host:port into a raw socket address and the
// matching address family, for engines that drive sockets directly.
func resolveSockaddr(host string, port uint16) (syscall.Sockaddr, int, error) {
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, 0, httperrors.NewTransportError(httperrors.DnsFailure, err)
	}

	if ip4 := tcpAddr.IP.To4(); ip4 != nil {
		sa4 := &syscall.SockaddrInet4{Port: tcpAddr.Port}
		copy(sa4.Addr[:], ip4)
		return sa4, syscall.AF_INET, nil
	}

	sa6 := &syscall.SockaddrInet6{Port: tcpAddr.Port}
	copy(sa6.Addr[:], tcpAddr.IP.To16())
	return sa6, syscall.AF_INET6, nil
}
