package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestMarshal(t *testing.T) {
	u, err := ParseURL("rtsp://example.com/stream")
	require.NoError(t, err)

	req := Request{
		Method: Describe,
		URL:    u,
		Header: Header{"CSeq": HeaderValue{"1"}},
	}

	out := req.Marshal()
	require.Contains(t, string(out), "DESCRIBE rtsp://example.com/stream RTSP/1.0\r\n")
	require.Contains(t, string(out), "CSeq: 1\r\n")
}

func TestRequestMarshalSetsContentLength(t *testing.T) {
	u, err := ParseURL("rtsp://example.com/stream")
	require.NoError(t, err)

	req := Request{
		Method: Announce,
		URL:    u,
		Header: Header{},
		Body:   []byte("v=0\r\n"),
	}

	out := req.Marshal()
	require.Contains(t, string(out), "Content-Length: 5\r\n")
	require.Contains(t, string(out), "v=0\r\n")
}

func TestParseRequestLine(t *testing.T) {
	method, u, ok := ParseRequestLine("ANNOUNCE rtsp://example.com/stream RTSP/1.0")
	require.True(t, ok)
	require.Equal(t, Announce, method)
	require.Equal(t, "rtsp://example.com/stream", u)
}

func TestParseRequestLineInvalid(t *testing.T) {
	_, _, ok := ParseRequestLine("not a request line")
	require.False(t, ok)
}
