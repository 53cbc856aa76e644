package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeaderBlock(t *testing.T) {
	h, err := ParseHeaderBlock([]string{
		"CSeq: 1",
		"Session: 12345678",
		"Transport: RTP/AVP;unicast;client_port=4588-4589",
	})
	require.NoError(t, err)

	v, ok := h.Get("CSeq")
	require.True(t, ok)
	require.Equal(t, "1", v)

	v, ok = h.Get("session")
	require.True(t, ok)
	require.Equal(t, "12345678", v)
}

func TestParseHeaderBlockInvalidLine(t *testing.T) {
	_, err := ParseHeaderBlock([]string{"not a header"})
	require.Error(t, err)
}

func TestHeaderMarshalRoundTrip(t *testing.T) {
	h := make(Header)
	h.Set("CSeq", "2")
	h.Set("Content-Length", "10")

	out := h.Marshal()
	require.Contains(t, string(out), "CSeq: 2\r\n")
	require.Contains(t, string(out), "Content-Length: 10\r\n")
	require.Contains(t, string(out), "\r\n\r\n")
}

func TestHeaderKeyNormalizeSpecialCases(t *testing.T) {
	h := make(Header)
	h.Set("www-authenticate", "Digest realm=\"x\"")
	h.Set("rtp-info", "url=rtsp://x/track1")

	_, ok := h.Get("WWW-Authenticate")
	require.True(t, ok)
	_, ok = h.Get("RTP-Info")
	require.True(t, ok)
}
