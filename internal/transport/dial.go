package transport

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"time"
)

// TLSPolicy names the certificate verification behavior used for the
// first connection attempt. The original client never verified
// anything; this type exists so that choice is visible and overridable
// rather than an unconditional cert_reqs=NONE buried in the dialer.
type TLSPolicy struct {
	name   string
	config *tls.Config
}

// String returns the policy's name for logging.
func (p TLSPolicy) String() string { return p.name }

// InsecurePolicy skips certificate verification entirely, matching the
// original client's behavior.
func InsecurePolicy() TLSPolicy {
	return TLSPolicy{name: "insecure", config: &tls.Config{InsecureSkipVerify: true}}
}

// VerifiedPolicy performs normal certificate verification against the
// system root pool.
func VerifiedPolicy() TLSPolicy {
	return TLSPolicy{name: "verified", config: &tls.Config{}}
}

// Dial opens the NJE transport. It tries TLS first under tlsPolicy and
// falls back to plain TCP on any TLS failure (handshake error, refused
// STARTTLS, whatever). There is no STARTTLS negotiation: a peer that
// can't speak TLS on first contact just gets a second, plain attempt.
func Dial(ctx context.Context, addr string, timeout time.Duration, tlsPolicy TLSPolicy) (*Conn, error) {
	dialer := &net.Dialer{Timeout: timeout}

	tlsConn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsPolicy.config)
	if err == nil {
		return wrap(tlsConn, true), nil
	}

	plain, plainErr := dialer.DialContext(ctx, "tcp", addr)
	if plainErr != nil {
		return nil, plainErr
	}
	return wrap(plain, false), nil
}

// NewByteConn adapts an in-memory byte stream (e.g. a captured session
// dump) to the net.Conn surface so Analyze can replay it through the
// same dispatch path as a live Conn, without opening a socket.
func NewByteConn(data []byte) *Conn {
	return wrap(&offlineConn{data: data}, false)
}

type offlineConn struct {
	data []byte
	pos  int
}

func (o *offlineConn) Read(b []byte) (int, error) {
	if o.pos >= len(o.data) {
		return 0, io.EOF
	}
	n := copy(b, o.data[o.pos:])
	o.pos += n
	return n, nil
}

func (o *offlineConn) Write(b []byte) (int, error)     { return len(b), nil }
func (o *offlineConn) Close() error                     { return nil }
func (o *offlineConn) LocalAddr() net.Addr              { return offlineAddr{} }
func (o *offlineConn) RemoteAddr() net.Addr             { return offlineAddr{} }
func (o *offlineConn) SetDeadline(time.Time) error      { return nil }
func (o *offlineConn) SetReadDeadline(time.Time) error  { return nil }
func (o *offlineConn) SetWriteDeadline(time.Time) error { return nil }

type offlineAddr struct{}

func (offlineAddr) Network() string { return "offline" }
func (offlineAddr) String() string  { return "offline" }
