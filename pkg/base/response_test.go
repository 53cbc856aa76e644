package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatusLineRTSP(t *testing.T) {
	proto, code, reason, err := ParseStatusLine("RTSP/1.0 200 OK")
	require.NoError(t, err)
	require.Equal(t, "RTSP/1.0", proto)
	require.Equal(t, StatusOK, code)
	require.Equal(t, "OK", reason)
}

func TestParseStatusLineHTTP(t *testing.T) {
	proto, code, reason, err := ParseStatusLine("HTTP/1.0 200 OK")
	require.NoError(t, err)
	require.Equal(t, "HTTP/1.0", proto)
	require.Equal(t, StatusOK, code)
	require.Equal(t, "OK", reason)
}

func TestParseStatusLineMalformed(t *testing.T) {
	_, _, _, err := ParseStatusLine("garbage")
	require.Error(t, err)
}

func TestResponseMarshal(t *testing.T) {
	resp := Response{
		StatusCode: StatusOK,
		Header:     Header{"CSeq": HeaderValue{"1"}},
	}
	out := resp.Marshal()
	require.Contains(t, string(out), "RTSP/1.0 200 OK\r\n")
	require.Contains(t, string(out), "CSeq: 1\r\n")
}
