package headers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadAuthDigest(t *testing.T) {
	a, err := ReadAuth(`Digest realm="example", nonce="abc123", algorithm="MD5"`)
	require.NoError(t, err)
	require.Equal(t, "Digest", a.Prefix)
	require.Equal(t, "example", a.Values["realm"])
	require.Equal(t, "abc123", a.Values["nonce"])
}

func TestAuthWritePutsRealmFirst(t *testing.T) {
	a := &Auth{Prefix: "Digest", Values: map[string]string{
		"nonce": "abc", "realm": "example",
	}}
	out := a.Write()
	require.Equal(t, `Digest realm="example", nonce="abc"`, out)
}

func TestParseTransportUDPUnicast(t *testing.T) {
	tr, err := ParseTransport("RTP/AVP;unicast;client_port=4588-4589")
	require.NoError(t, err)
	require.Equal(t, ProtocolUDP, tr.Protocol)
	require.NotNil(t, tr.Delivery)
	require.Equal(t, DeliveryUnicast, *tr.Delivery)
	require.Equal(t, &[2]int{4588, 4589}, tr.ClientPorts)
}

func TestParseTransportTCPInterleaved(t *testing.T) {
	tr, err := ParseTransport("RTP/AVP/TCP;interleaved=0-1")
	require.NoError(t, err)
	require.Equal(t, ProtocolTCP, tr.Protocol)
	require.Equal(t, &[2]int{0, 1}, tr.InterleavedIDs)
}

func TestParseTransportInvalidProtocol(t *testing.T) {
	_, err := ParseTransport("SCTP/AVP")
	require.Error(t, err)
}

func TestTransportWrite(t *testing.T) {
	d := DeliveryUnicast
	tr := &Transport{
		Protocol:    ProtocolUDP,
		Delivery:    &d,
		ClientPorts: &[2]int{4588, 4589},
	}
	require.Equal(t, "RTP/AVP;unicast;client_port=4588-4589", tr.Write())
}

func TestParseSession(t *testing.T) {
	s, err := ParseSession("12345678;timeout=60")
	require.NoError(t, err)
	require.Equal(t, "12345678", s.ID)
	require.NotNil(t, s.Timeout)
	require.Equal(t, uint(60), *s.Timeout)
}

func TestParseSessionNoTimeout(t *testing.T) {
	s, err := ParseSession("12345678")
	require.NoError(t, err)
	require.Nil(t, s.Timeout)
}

func TestSessionWriteOmitsTimeout(t *testing.T) {
	timeout := uint(60)
	s := &Session{ID: "12345678", Timeout: &timeout}
	require.Equal(t, "12345678", s.Write())
}

func TestParseRangeNPT(t *testing.T) {
	r, err := ParseRange("npt=5.5-10")
	require.NoError(t, err)
	require.Equal(t, 5500*time.Millisecond, r.Start)
	require.NotNil(t, r.End)
	require.Equal(t, 10*time.Second, *r.End)
}

func TestParseRangeOpenEnded(t *testing.T) {
	r, err := ParseRange("npt=0-")
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), r.Start)
	require.Nil(t, r.End)
}

func TestParseRangeRejectsOtherUnits(t *testing.T) {
	_, err := ParseRange("smpte=0:00:00-")
	require.Error(t, err)
}

func TestRangeWrite(t *testing.T) {
	r := &Range{Start: 5 * time.Second}
	require.Equal(t, "npt=5-", r.Write())
}

func TestParseRTPInfo(t *testing.T) {
	info, err := ParseRTPInfo("url=rtsp://example.com/stream/trackID=0;seq=1;rtptime=1000")
	require.NoError(t, err)
	require.Len(t, info, 1)
	require.Equal(t, "rtsp://example.com/stream/trackID=0", info[0].URL)
	require.Equal(t, uint16(1), info[0].SequenceNumber)
	require.Equal(t, uint32(1000), info[0].RTPTime)
}
