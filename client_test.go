package rtspclient

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/sdpsession"
	"github.com/stretchr/testify/require"
)

type fakeRequest struct {
	Method string
	URL    string
	Header map[string]string
	Body   []byte
}

func readFakeRequest(r *bufio.Reader) (*fakeRequest, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(strings.TrimRight(line, "\r\n"), " ", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed request line: %q", line)
	}
	req := &fakeRequest{Method: parts[0], URL: parts[1], Header: make(map[string]string)}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		req.Header[strings.TrimSpace(line[:i])] = strings.TrimSpace(line[i+1:])
	}

	if cl, ok := req.Header["Content-Length"]; ok {
		n, _ := strconv.Atoi(cl)
		body := make([]byte, n)
		if n > 0 {
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, err
			}
		}
		req.Body = body
	}

	return req, nil
}

func writeFakeResponse(conn net.Conn, status int, headers map[string]string, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "RTSP/1.0 %d OK\r\n", status)
	for k, v := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v)
	}
	if body != "" {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(body))
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	conn.Write([]byte(b.String()))
}

func waitResult(t *testing.T, done chan struct{}) {
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for response handler")
	}
}

func TestClientOptionsDescribe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)

		nc, err2 := l.Accept()
		require.NoError(t, err2)
		defer nc.Close()
		r := bufio.NewReader(nc)

		req, err2 := readFakeRequest(r)
		require.NoError(t, err2)
		require.Equal(t, "OPTIONS", req.Method)
		writeFakeResponse(nc, 200, map[string]string{"CSeq": req.Header["CSeq"], "Public": "DESCRIBE, SETUP, PLAY"}, "")

		req, err2 = readFakeRequest(r)
		require.NoError(t, err2)
		require.Equal(t, "DESCRIBE", req.Method)
		writeFakeResponse(nc, 200, map[string]string{"CSeq": req.Header["CSeq"]}, "v=0\r\n")
	}()

	c := New("rtsp://"+l.Addr().String()+"/stream", 0, "test", 0)
	defer c.Close()

	optDone := make(chan struct{})
	var optCode int
	c.Options(func(c *Client, code int, result string) {
		optCode = code
		close(optDone)
	})
	waitResult(t, optDone)
	require.Equal(t, 0, optCode)

	descDone := make(chan struct{})
	var descBody string
	c.Describe(func(c *Client, code int, result string) {
		descBody = result
		close(descDone)
	})
	waitResult(t, descDone)
	require.Equal(t, "v=0\r\n", descBody)

	<-serverDone
}

func TestClientCSeqMonotonic(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	c := New("rtsp://"+l.Addr().String()+"/stream", 0, "test", 0)
	defer c.Close()

	first := c.Options(nil)
	second := c.Options(nil)
	require.Greater(t, second, first)
}

func TestClientMalformedURLFailsSynchronously(t *testing.T) {
	c := New("not-a-url", 0, "test", 0)
	defer c.Close()

	done := make(chan struct{})
	var code int
	cseq := c.Options(func(c *Client, resultCode int, result string) {
		code = resultCode
		close(done)
	})
	require.Greater(t, cseq, 0)
	waitResult(t, done)
	require.Less(t, code, 0)
}

func TestClientDigestAuthRetry(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)

		nc, err2 := l.Accept()
		require.NoError(t, err2)
		defer nc.Close()
		r := bufio.NewReader(nc)

		req, err2 := readFakeRequest(r)
		require.NoError(t, err2)
		require.Equal(t, "DESCRIBE", req.Method)
		require.Empty(t, req.Header["Authorization"])
		writeFakeResponse(nc, 401, map[string]string{
			"CSeq":             req.Header["CSeq"],
			"WWW-Authenticate": `Digest realm="example", nonce="abc123"`,
		}, "")

		req, err2 = readFakeRequest(r)
		require.NoError(t, err2)
		require.NotEmpty(t, req.Header["Authorization"])
		require.Contains(t, req.Header["Authorization"], "Digest ")
		writeFakeResponse(nc, 200, map[string]string{"CSeq": req.Header["CSeq"]}, "v=0\r\n")
	}()

	c := New("rtsp://"+l.Addr().String()+"/stream", 0, "test", 0)
	c.SetCredentials("user", "pass")
	defer c.Close()

	done := make(chan struct{})
	var code int
	c.Describe(func(c *Client, resultCode int, result string) {
		code = resultCode
		close(done)
	})
	waitResult(t, done)
	require.Equal(t, 0, code)

	<-serverDone
}

func TestClientResponseBufferOverflow(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)

		nc, err2 := l.Accept()
		require.NoError(t, err2)
		defer nc.Close()
		r := bufio.NewReader(nc)

		_, err2 = readFakeRequest(r)
		require.NoError(t, err2)

		// never send a terminating blank line; the header alone exceeds
		// the configured tiny buffer capacity.
		junk := strings.Repeat("X-Filler: aaaaaaaaaa\r\n", 50)
		nc.Write([]byte("RTSP/1.0 200 OK\r\n" + junk))
	}()

	c := New("rtsp://"+l.Addr().String()+"/stream", 0, "test", 0)
	c.ResponseBufferSize = 64
	c.respBuf = make([]byte, 64)
	defer c.Close()

	done := make(chan struct{})
	var code int
	c.Options(func(c *Client, resultCode int, result string) {
		code = resultCode
		close(done)
	})
	waitResult(t, done)
	require.Less(t, code, 0)

	<-serverDone
}

func TestClientSetupTCPInterleavedAndDemux(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)

		nc, err2 := l.Accept()
		require.NoError(t, err2)
		defer nc.Close()
		r := bufio.NewReader(nc)

		req, err2 := readFakeRequest(r)
		require.NoError(t, err2)
		require.Equal(t, "SETUP", req.Method)
		require.Contains(t, req.Header["Transport"], "RTP/AVP/TCP")
		writeFakeResponse(nc, 200, map[string]string{
			"CSeq":      req.Header["CSeq"],
			"Session":   "12345678",
			"Transport": req.Header["Transport"] + ";server_port=0-0",
		}, "")

		// one RTP interleaved frame on channel 0, split across two writes
		// to exercise the incremental reassembly path.
		payload := []byte{0xAB, 0xCD, 0xEF, 0x01}
		frame := []byte{0x24, 0x00, 0x00, byte(len(payload))}
		frame = append(frame, payload...)
		nc.Write(frame[:3])
		time.Sleep(20 * time.Millisecond)
		nc.Write(frame[3:])
	}()

	c := New("rtsp://"+l.Addr().String()+"/stream", 0, "test", 0)
	defer c.Close()

	received := make(chan []byte, 1)
	ss := &sdpsession.Subsession{MediaType: "video", ControlPath: "trackID=0", RTPSink: func(p []byte) {
		cp := make([]byte, len(p))
		copy(cp, p)
		received <- cp
	}}

	done := make(chan struct{})
	var code int
	c.Setup(nil, ss, SetupFlags{StreamUsingTCP: true}, func(c *Client, resultCode int, result string) {
		code = resultCode
		close(done)
	})
	waitResult(t, done)
	require.Equal(t, 0, code)
	require.Equal(t, 0, ss.RTPChannelID)
	require.Equal(t, 1, ss.RTCPChannelID)

	select {
	case p := <-received:
		require.Equal(t, []byte{0xAB, 0xCD, 0xEF, 0x01}, p)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for interleaved frame")
	}

	<-serverDone
}
