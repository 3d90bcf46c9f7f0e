// Package transport dials the NJE peer and wraps the resulting
// net.Conn with byte counters and first-activity timestamps.
package transport

import (
	"net"
	"time"
)

// Conn wraps a net.Conn, tracking bytes sent/received and the
// timestamps of the first successful read and write.
type Conn struct {
	net.Conn
	TLS          bool
	OpenedAt     time.Time
	ClosedAt     time.Time
	FirstReadAt  time.Time
	FirstWriteAt time.Time
	SentBytes    int64
	RecvBytes    int64
	RecvErr      error
	SentErr      error
}

// wrap adopts an already-established net.Conn.
func wrap(c net.Conn, tls bool) *Conn {
	return &Conn{Conn: c, TLS: tls, OpenedAt: time.Now()}
}

// Wrap adopts an already-established net.Conn, such as one half of a
// net.Pipe used to drive a session against a fake peer in tests.
func Wrap(c net.Conn) *Conn {
	return wrap(c, false)
}

// Close records the close time before tearing down the socket.
func (c *Conn) Close() error {
	c.ClosedAt = time.Now()
	return c.Conn.Close()
}

// Read tracks bytes received and the first-read timestamp.
func (c *Conn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if err == nil && c.RecvBytes == 0 && n > 0 {
		c.FirstReadAt = time.Now()
	}
	c.RecvBytes += int64(n)
	if netErr, ok := err.(net.Error); ok && !netErr.Timeout() {
		c.RecvErr = err
	}
	return n, err
}

// Write tracks bytes sent and the first-write timestamp.
func (c *Conn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	if err == nil && c.SentBytes == 0 && n > 0 {
		c.FirstWriteAt = time.Now()
	}
	c.SentBytes += int64(n)
	if err != nil {
		c.SentErr = err
	}
	return n, err
}
