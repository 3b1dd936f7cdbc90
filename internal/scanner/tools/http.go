package tools

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"time"
)

var httpPrefix = []byte("HTTP/")

// HeadRequest is the minimal request used to probe an endpoint.
func HeadRequest(host string) []byte {
	return []byte(fmt.Sprintf("HEAD / HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", host))
}

// WriteHead writes a HEAD request on conn within timeout.
func WriteHead(conn net.Conn, host string, timeout time.Duration) error {
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	if _, err := conn.Write(HeadRequest(host)); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	return nil
}

// SendHead writes a HEAD request on conn and returns the first bytes of the
// response. Both the write and the read are bounded by timeout.
func SendHead(conn net.Conn, host string, timeout time.Duration) ([]byte, error) {
	if err := WriteHead(conn, host, timeout); err != nil {
		return nil, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	buf := make([]byte, 1024)
	n, err := io.ReadAtLeast(conn, buf, len(httpPrefix))
	if err != nil && n == 0 {
		return nil, fmt.Errorf("read probe: %w", err)
	}

	return buf[:n], nil
}

// LooksLikeHTTP reports whether a response starts with an HTTP status line.
func LooksLikeHTTP(response []byte) bool {
	return bytes.HasPrefix(response, httpPrefix)
}

// ProbeHTTP sends a plain HEAD request over conn and reports whether the peer
// answered like an HTTP server.
func ProbeHTTP(conn net.Conn, host string, timeout time.Duration) bool {
	response, err := SendHead(conn, host, timeout)
	if err != nil {
		return false
	}
	return LooksLikeHTTP(response)
}
