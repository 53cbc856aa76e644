package headers

import (
	"fmt"
	"strconv"
	"strings"
)

// RTPInfoEntry is one comma-separated entry of an RTP-Info header,
// applied per subsession after PLAY.
type RTPInfoEntry struct {
	URL            string
	SequenceNumber uint16
	RTPTime        uint32
}

// RTPInfo is a full RTP-Info header.
type RTPInfo []*RTPInfoEntry

// ParseRTPInfo decodes an RTP-Info header.
func ParseRTPInfo(v string) (RTPInfo, error) {
	var h RTPInfo

	for _, entry := range strings.Split(v, ",") {
		e := &RTPInfoEntry{}

		for _, kv := range strings.Split(entry, ";") {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("unable to parse RTP-Info entry: %q", kv)
			}

			switch parts[0] {
			case "url":
				e.URL = parts[1]

			case "seq":
				n, err := strconv.ParseUint(parts[1], 10, 16)
				if err != nil {
					return nil, err
				}
				e.SequenceNumber = uint16(n)

			case "rtptime":
				n, err := strconv.ParseUint(parts[1], 10, 32)
				if err != nil {
					return nil, err
				}
				e.RTPTime = uint32(n)
			}
		}

		h = append(h, e)
	}

	return h, nil
}

// Write encodes an RTP-Info header.
func (h RTPInfo) Write() string {
	var parts []string
	for _, e := range h {
		parts = append(parts, fmt.Sprintf("url=%s;seq=%d;rtptime=%d", e.URL, e.SequenceNumber, e.RTPTime))
	}
	return strings.Join(parts, ",")
}
