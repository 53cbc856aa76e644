package headers

import (
	"fmt"
	"strconv"
	"strings"
)

// Protocol is the transport protocol carried by a Transport header.
type Protocol int

// Supported protocols.
const (
	ProtocolUDP Protocol = iota
	ProtocolTCP
)

// Delivery is the delivery method carried by a Transport header.
type Delivery int

// Supported delivery methods.
const (
	DeliveryUnicast Delivery = iota
	DeliveryMulticast
)

// Transport is a parsed Transport header, covering both the request side
// and the response
// side.
type Transport struct {
	Protocol       Protocol
	Delivery       *Delivery
	Destination    *string
	Source         *string
	TTL            *uint
	ClientPorts    *[2]int
	ServerPorts    *[2]int
	InterleavedIDs *[2]int
	SSRC           *string
}

func parsePortPair(val string) (*[2]int, error) {
	parts := strings.Split(val, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid port pair: %q", val)
	}
	p1, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid port pair: %q", val)
	}
	p2, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid port pair: %q", val)
	}
	return &[2]int{p1, p2}, nil
}

// ParseTransport parses a Transport header value.
func ParseTransport(v string) (*Transport, error) {
	parts := strings.Split(v, ";")
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty transport value")
	}

	t := &Transport{}

	switch parts[0] {
	case "RTP/AVP", "RTP/AVP/UDP":
		t.Protocol = ProtocolUDP
	case "RTP/AVP/TCP":
		t.Protocol = ProtocolTCP
	default:
		return nil, fmt.Errorf("invalid transport protocol: %q", parts[0])
	}
	parts = parts[1:]

	for _, p := range parts {
		switch {
		case p == "unicast":
			d := DeliveryUnicast
			t.Delivery = &d

		case p == "multicast":
			d := DeliveryMulticast
			t.Delivery = &d

		case strings.HasPrefix(p, "destination="):
			v := p[len("destination="):]
			t.Destination = &v

		case strings.HasPrefix(p, "source="):
			v := p[len("source="):]
			t.Source = &v

		case strings.HasPrefix(p, "ttl="):
			n, err := strconv.ParseUint(p[len("ttl="):], 10, 32)
			if err != nil {
				return nil, err
			}
			vu := uint(n)
			t.TTL = &vu

		case strings.HasPrefix(p, "client_port="):
			ports, err := parsePortPair(p[len("client_port="):])
			if err != nil {
				return nil, err
			}
			t.ClientPorts = ports

		case strings.HasPrefix(p, "server_port="):
			ports, err := parsePortPair(p[len("server_port="):])
			if err != nil {
				return nil, err
			}
			t.ServerPorts = ports

		case strings.HasPrefix(p, "interleaved="):
			ports, err := parsePortPair(p[len("interleaved="):])
			if err != nil {
				return nil, err
			}
			t.InterleavedIDs = ports

		case strings.HasPrefix(p, "ssrc="):
			v := p[len("ssrc="):]
			t.SSRC = &v
		}
		// unknown parameters are ignored, per RFC 2326 §12.39
	}

	return t, nil
}

// Write encodes a Transport header.
func (t *Transport) Write() string {
	var parts []string

	if t.Protocol == ProtocolUDP {
		parts = append(parts, "RTP/AVP")
	} else {
		parts = append(parts, "RTP/AVP/TCP")
	}

	if t.Delivery != nil {
		if *t.Delivery == DeliveryUnicast {
			parts = append(parts, "unicast")
		} else {
			parts = append(parts, "multicast")
		}
	}

	if t.ClientPorts != nil {
		parts = append(parts, fmt.Sprintf("client_port=%d-%d", t.ClientPorts[0], t.ClientPorts[1]))
	}
	if t.InterleavedIDs != nil {
		parts = append(parts, fmt.Sprintf("interleaved=%d-%d", t.InterleavedIDs[0], t.InterleavedIDs[1]))
	}
	if t.Destination != nil {
		parts = append(parts, "destination="+*t.Destination)
	}

	return strings.Join(parts, ";")
}
