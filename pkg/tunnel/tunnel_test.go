package tunnel

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstablishGETAndPOSTLegs(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	var getLegDialed int
	cookies := make(chan string, 2)
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)

		for i := 0; i < 2; i++ {
			nc, err2 := l.Accept()
			require.NoError(t, err2)
			defer nc.Close()

			req, err2 := http.ReadRequest(bufio.NewReader(nc))
			require.NoError(t, err2)
			cookies <- req.Header.Get("x-sessioncookie")

			if req.Method == "GET" {
				_, err2 = nc.Write([]byte("HTTP/1.0 200 OK\r\nContent-Type: application/x-rtsp-tunnelled\r\n\r\n"))
				require.NoError(t, err2)
			}
		}
	}()

	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, network, address)
	}

	tun, err := Establish(context.Background(), dial, "tcp", l.Addr().String(), "http://x/stream", "test-agent",
		func() { getLegDialed++ })
	require.NoError(t, err)
	defer tun.Close()

	require.Equal(t, 1, getLegDialed)
	require.NotNil(t, tun.GetConn)
	require.NotNil(t, tun.PostConn)

	<-serverDone
	c1, c2 := <-cookies, <-cookies
	require.NotEmpty(t, c1)
	require.Equal(t, c1, c2)
}

func TestEstablishFailsOnNon200(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	go func() {
		for i := 0; i < 2; i++ {
			nc, err2 := l.Accept()
			if err2 != nil {
				return
			}
			defer nc.Close()
			req, _ := http.ReadRequest(bufio.NewReader(nc))
			if req != nil && req.Method == "GET" {
				nc.Write([]byte("HTTP/1.0 404 Not Found\r\n\r\n"))
			}
		}
	}()

	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, network, address)
	}

	_, err = Establish(context.Background(), dial, "tcp", l.Addr().String(), "http://x/stream", "test-agent", nil)
	require.Error(t, err)
}

func TestIsAbsoluteSuffix(t *testing.T) {
	require.True(t, IsAbsoluteSuffix("http://x/y"))
	require.False(t, IsAbsoluteSuffix("/y"))
}
