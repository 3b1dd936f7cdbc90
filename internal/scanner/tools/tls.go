package tools

import (
	"context"
	"crypto/tls"
	"net"
)

// TLSSession is an established TLS connection together with the raw DER
// certificates the peer presented, leaf first.
type TLSSession struct {
	Conn      net.Conn
	PeerChain [][]byte
}

// TLSBackend performs the client side of a TLS handshake over an already
// connected socket. Certificates are never verified against local trust: the
// caller inspects them afterwards.
type TLSBackend interface {
	Handshake(ctx context.Context, conn net.Conn, serverName string) (*TLSSession, error)
}

// StdTLSBackend is the crypto/tls implementation of TLSBackend.
type StdTLSBackend struct{}

func (StdTLSBackend) Handshake(ctx context.Context, conn net.Conn, serverName string) (*TLSSession, error) {
	client := tls.Client(conn, &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: true, // inspect expired and untrusted certificates too
	})
	if err := client.HandshakeContext(ctx); err != nil {
		return nil, err
	}

	state := client.ConnectionState()
	chain := make([][]byte, 0, len(state.PeerCertificates))
	for _, cert := range state.PeerCertificates {
		chain = append(chain, cert.Raw)
	}

	return &TLSSession{Conn: client, PeerChain: chain}, nil
}
