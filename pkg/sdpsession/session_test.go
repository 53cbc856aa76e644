package sdpsession

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testSDP = "v=0\r\n" +
	"o=- 0 0 IN IP4 127.0.0.1\r\n" +
	"s=test\r\n" +
	"c=IN IP4 127.0.0.1\r\n" +
	"t=0 0\r\n" +
	"a=control:*\r\n" +
	"m=video 0 RTP/AVP 96\r\n" +
	"a=control:trackID=0\r\n" +
	"m=audio 0 RTP/AVP 97\r\n" +
	"a=control:trackID=1\r\n"

func TestParseSDP(t *testing.T) {
	s, err := Parse([]byte(testSDP))
	require.NoError(t, err)
	require.Equal(t, "*", s.SessionControlPath)
	require.Len(t, s.Subsessions, 2)

	require.Equal(t, "video", s.Subsessions[0].MediaType)
	require.Equal(t, "trackID=0", s.Subsessions[0].ControlPath)
	require.Equal(t, []string{"96"}, s.Subsessions[0].Formats)

	require.Equal(t, "audio", s.Subsessions[1].MediaType)
	require.Equal(t, "trackID=1", s.Subsessions[1].ControlPath)
}

func TestParseSDPDefaultsControlPath(t *testing.T) {
	sdp := "v=0\r\n" +
		"o=- 0 0 IN IP4 127.0.0.1\r\n" +
		"s=test\r\n" +
		"t=0 0\r\n" +
		"m=video 0 RTP/AVP 96\r\n"

	s, err := Parse([]byte(sdp))
	require.NoError(t, err)
	require.Equal(t, "trackID=0", s.Subsessions[0].ControlPath)
}

func TestParseSDPRejectsEmptySession(t *testing.T) {
	sdp := "v=0\r\n" +
		"o=- 0 0 IN IP4 127.0.0.1\r\n" +
		"s=test\r\n" +
		"t=0 0\r\n"

	_, err := Parse([]byte(sdp))
	require.Error(t, err)
}
