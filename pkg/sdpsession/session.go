// Package sdpsession is the MediaSession/MediaSubsession model the client
// core treats as an external collaborator: it receives the
// DESCRIBE body, hands it to pion/sdp for parsing, and thereafter only
// reads/writes the handful of fields the core needs to drive SETUP/PLAY.
package sdpsession

import (
	"fmt"
	"strconv"
	"time"

	psdp "github.com/pion/sdp/v3"
)

// Subsession is one media stream (audio, video, ...) inside a Session,
// with its own control URL and transport parameters.
type Subsession struct {
	MediaType   string // "audio", "video", "application", ...
	ControlPath string // absolute or relative, from the "a=control:" attribute
	Formats     []string

	// filled in by the client core during/after SETUP
	ClientPortNum           int // 0 if unspecified
	ServerPortNum           int
	ConnectionEndpointName  string
	RTPChannelID            int
	RTCPChannelID           int
	UsingTCP                bool
	Multicast               bool

	// filled in by the client core during/after PLAY
	Scale     float64
	RangeFrom time.Duration
	RangeTo   *time.Duration

	// ingest hooks the client core calls when delivering interleaved
	// frames or UDP datagrams for this subsession
	RTPSink  func(payload []byte)
	RTCPSink func(payload []byte)

	// PayloadType is the RTP/AVP payload type taken from the first SDP
	// format listed for this media (m=<type> <port> RTP/AVP <fmt> ...).
	PayloadType uint8

	// LastSequenceNumber and LastTimestamp mirror the most recent RTP
	// packet the core has demultiplexed for this subsession over an
	// interleaved channel; a PLAY response's matching RTP-Info entry
	// also sets them.
	LastSequenceNumber uint16
	LastTimestamp      uint32
}

// Session is the parsed result of a DESCRIBE body: an ordered list of
// Subsessions plus the session-level control path that subsession
// control attributes resolve against.
type Session struct {
	Subsessions []*Subsession
	SessionControlPath string
}

// Parse parses a DESCRIBE body (an SDP session description) into a
// Session, extracting only the handful of fields SETUP/PLAY need.
func Parse(body []byte) (*Session, error) {
	var sd psdp.SessionDescription
	if err := sd.Unmarshal(body); err != nil {
		return nil, fmt.Errorf("invalid SDP: %w", err)
	}

	s := &Session{}

	if control, ok := sd.Attribute("control"); ok {
		s.SessionControlPath = control
	}

	for i, md := range sd.MediaDescriptions {
		ss := &Subsession{
			MediaType: md.MediaName.Media,
			Formats:   md.MediaName.Formats,
			Scale:     1,
		}

		if len(ss.Formats) > 0 {
			if pt, err := strconv.Atoi(ss.Formats[0]); err == nil && pt >= 0 && pt < 256 {
				ss.PayloadType = uint8(pt)
			}
		}

		if control, ok := md.Attribute("control"); ok {
			ss.ControlPath = control
		} else {
			ss.ControlPath = "trackID=" + strconv.Itoa(i)
		}

		if md.ConnectionInformation != nil && md.ConnectionInformation.Address != nil {
			ss.ConnectionEndpointName = md.ConnectionInformation.Address.Address
		}

		// client_port, when offered by the SDP rather than chosen locally
		if rng := md.MediaName.Port.Value; rng != 0 {
			ss.ClientPortNum = rng
		}

		s.Subsessions = append(s.Subsessions, ss)
	}

	if len(s.Subsessions) == 0 {
		return nil, fmt.Errorf("SDP contains no media descriptions")
	}

	return s, nil
}

