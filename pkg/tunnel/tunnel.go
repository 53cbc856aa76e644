// Package tunnel implements Apple's RTSP-over-HTTP tunneling handshake
//: two HTTP connections, bound by
// a shared x-sessioncookie, carry RTSP base64-encoded on the POST leg and
// raw on the GET leg.
package tunnel

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/liberrors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	cookieLen = 33
)

// DialFunc dials a TCP connection, matching the client core's
// configurable DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Tunnel holds the two legs of an established RTSP-over-HTTP tunnel.
type Tunnel struct {
	GetConn  net.Conn // server -> client, raw RTSP
	PostConn net.Conn // client -> server, base64-encoded RTSP

	cookie string
}

func newCookie() string {
	// derive a printable per-session cookie from a real UUID, topped up
	// with crypto/rand bytes to reach cookieLen characters.
	u := uuid.New()
	c := base64.RawURLEncoding.EncodeToString(u[:])
	for len(c) < cookieLen {
		var extra [16]byte
		rand.Read(extra[:])
		c += base64.RawURLEncoding.EncodeToString(extra[:])
	}
	return c[:cookieLen]
}

// Establish performs the GET+POST handshake against host:port, using
// urlSuffix as the tunneled RTSP URL's path.
func Establish(
	ctx context.Context,
	dial DialFunc,
	network string,
	address string,
	urlSuffix string,
	userAgent string,
	onGetLegDialed func(),
) (*Tunnel, error) {
	t := &Tunnel{cookie: newCookie()}

	g, gctx := errgroup.WithContext(ctx)
	_ = gctx

	g.Go(func() error {
		conn, err := dial(ctx, network, address)
		if err != nil {
			return fmt.Errorf("GET leg connect failed: %w", err)
		}
		if onGetLegDialed != nil {
			onGetLegDialed()
		}

		req := "GET " + urlSuffix + " HTTP/1.0\r\n" +
			"User-Agent: " + userAgent + "\r\n" +
			"x-sessioncookie: " + t.cookie + "\r\n" +
			"Accept: application/x-rtsp-tunnelled\r\n" +
			"Pragma: no-cache\r\n" +
			"Cache-Control: no-cache\r\n\r\n"

		if _, err := conn.Write([]byte(req)); err != nil {
			conn.Close()
			return fmt.Errorf("GET leg request failed: %w", err)
		}

		resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
		if err != nil {
			conn.Close()
			return fmt.Errorf("GET leg response failed: %w", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			conn.Close()
			return liberrors.ErrHTTPTunnelRequestFailed{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		}

		t.GetConn = conn
		return nil
	})

	g.Go(func() error {
		conn, err := dial(ctx, network, address)
		if err != nil {
			return fmt.Errorf("POST leg connect failed: %w", err)
		}

		req := "POST " + urlSuffix + " HTTP/1.0\r\n" +
			"User-Agent: " + userAgent + "\r\n" +
			"x-sessioncookie: " + t.cookie + "\r\n" +
			"Content-Type: application/x-rtsp-tunnelled\r\n" +
			"Content-Length: 32767\r\n\r\n"

		if _, err := conn.Write([]byte(req)); err != nil {
			conn.Close()
			return fmt.Errorf("POST leg request failed: %w", err)
		}

		t.PostConn = conn
		return nil
	})

	if err := g.Wait(); err != nil {
		t.Close()
		return nil, err
	}

	return t, nil
}

// WriteRTSP base64-encodes an RTSP message and writes it to the POST leg.
func (t *Tunnel) WriteRTSP(b []byte) error {
	enc := base64.StdEncoding.EncodeToString(b)
	_, err := t.PostConn.Write([]byte(enc))
	return err
}

// Close closes both legs, ignoring errors on whichever leg never opened.
func (t *Tunnel) Close() {
	if t.GetConn != nil {
		t.GetConn.Close()
	}
	if t.PostConn != nil {
		t.PostConn.Close()
	}
}

// IsAbsoluteSuffix reports whether s starts with a scheme, used when
// building the tunneled URL suffix from the client's base URL.
func IsAbsoluteSuffix(s string) bool {
	return strings.Contains(s, "://")
}
