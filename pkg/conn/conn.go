// Package conn provides the deadline-aware net.Conn wrapper the
// connection manager dials and hands to the reader goroutine and the
// request engine's writer.
package conn

import (
	"net"
	"time"
)

// Conn wraps a net.Conn, applying a configured read/write timeout to
// every operation instead of requiring each call site to set deadlines.
type Conn struct {
	net.Conn
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// New wraps nc. A zero timeout disables deadlines for that direction.
func New(nc net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{Conn: nc, ReadTimeout: readTimeout, WriteTimeout: writeTimeout}
}

// Read implements io.Reader, applying ReadTimeout before every call.
func (c *Conn) Read(p []byte) (int, error) {
	if c.ReadTimeout > 0 {
		c.Conn.SetReadDeadline(time.Now().Add(c.ReadTimeout))
	}
	return c.Conn.Read(p)
}

// Write implements io.Writer, applying WriteTimeout before every call.
func (c *Conn) Write(p []byte) (int, error) {
	if c.WriteTimeout > 0 {
		c.Conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout))
	}
	return c.Conn.Write(p)
}
