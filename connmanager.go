package rtspclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"

	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/conn"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/liberrors"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/tunnel"
)

// connConnectedEvent reports that the bare TCP connection (or, in
// tunneling mode, the GET leg's bare TCP connection) is up. This is the
// transition out of "awaitingConnection".
type connConnectedEvent struct {
	conn net.Conn // nil in tunneling mode; the tunnel arrives fully formed
	err  error
}

// tunnelReadyEvent reports completion of the full GET+POST handshake,
// the transition out of "awaitingHTTPTunneling".
type tunnelReadyEvent struct {
	tun *tunnel.Tunnel
	err error
}

// beginConnect starts the connection attempt in its own goroutine,
// never blocking the dispatch loop. DialContext already performs the
// blocking work; the goroutine exists so that work never stalls event
// dispatch.
func (c *Client) beginConnect() {
	if c.connecting {
		return
	}
	c.connecting = true

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.ConnectTimeout)
		defer cancel()

		host := c.baseURL.Hostname()
		port := c.baseURL.Port()
		address := host + ":" + strconv.Itoa(port)

		if c.TunnelOverHTTPPort != 0 {
			tunAddress := host + ":" + strconv.Itoa(c.TunnelOverHTTPPort)
			suffix, _ := c.baseURL.RTSPPathAndQuery()
			scheme := "http"
			if c.baseURL.Scheme() == "rtsps" {
				scheme = "https"
			}
			urlSuffix := scheme + "://" + tunAddress + "/" + suffix

			tun, err := tunnel.Establish(ctx, c.dial, "tcp", tunAddress, urlSuffix, c.UserAgent,
				func() { c.postEvent(&connConnectedEvent{}) })
			if err != nil {
				c.postEvent(&tunnelReadyEvent{err: liberrors.ErrHTTPTunnelSetupFailed{Err: err}})
				return
			}
			c.postEvent(&tunnelReadyEvent{tun: tun})
			return
		}

		conn, err := c.dial(ctx, "tcp", address)
		if err != nil {
			c.postEvent(&connConnectedEvent{err: liberrors.ErrConnect{Err: err}})
			return
		}
		c.postEvent(&connConnectedEvent{conn: conn})
	}()
}

// dial wraps DialContext, applying TLS for rtsps:// URLs and wrapping
// the result in the deadline-aware conn.Conn so neither the reader
// goroutine nor the writer has to set per-call deadlines themselves.
func (c *Client) dial(ctx context.Context, network, address string) (net.Conn, error) {
	nc, err := c.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}

	if c.baseURL != nil && c.baseURL.Scheme() == "rtsps" {
		cfg := c.TLSConfig
		if cfg == nil {
			cfg = &tls.Config{}
		} else {
			cfg = cfg.Clone()
		}
		if cfg.ServerName == "" {
			cfg.ServerName = c.baseURL.Hostname()
		}
		tconn := tls.Client(nc, cfg)
		if err := tconn.Handshake(); err != nil {
			nc.Close()
			return nil, fmt.Errorf("TLS handshake failed: %w", err)
		}
		nc = tconn
	}

	return conn.New(nc, c.ReadTimeout, c.WriteTimeout), nil
}

func (c *Client) postEvent(ev interface{}) {
	select {
	case c.events <- ev:
	case <-c.doneCh:
	}
}
