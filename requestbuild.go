package rtspclient

import (
	"strconv"
	"time"

	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/base"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/headers"
)

// buildRequest serializes rec into wire bytes, consulting the client's
// current session id and user agent. It does not assign rec.cseq --
// that is done by the caller before each send, including a resend after
// 401, which gets a fresh CSeq like any other send -- it only writes the
// CSeq header from whatever value is already staged.
func (c *Client) buildRequest(rec *requestRecord) ([]byte, error) {
	hdr := make(base.Header)
	hdr.Set("CSeq", strconv.Itoa(rec.cseq))

	c.mu.Lock()
	sessionID := c.sessionID
	userAgent := c.UserAgent
	c.mu.Unlock()
	hdr.Set("User-Agent", userAgent)

	if sessionID != "" && rec.method != base.Options && rec.method != base.Describe {
		hdr.Set("Session", (&headers.Session{ID: sessionID}).Write())
	}

	switch rec.method {
	case base.Setup:
		t := c.transportForSetup(rec)
		hdr.Set("Transport", t.Write())

	case base.Play, base.Record:
		if rec.start >= 0 {
			r := &headers.Range{Start: floatSecs(rec.start)}
			if rec.hasEnd {
				end := floatSecs(rec.end)
				r.End = &end
			}
			hdr.Set("Range", r.Write())
		}
		if rec.scale != 0 && rec.scale != 1 {
			hdr.Set("Scale", strconv.FormatFloat(rec.scale, 'f', -1, 64))
		}

	case base.SetParameter:
		if rec.paramName != "" {
			rec.body = []byte(rec.paramName + ": " + rec.paramValue + "\r\n")
			hdr.Set("Content-Type", "text/parameters")
		}

	case base.GetParameter:
		if rec.paramName != "" {
			rec.body = []byte(rec.paramName + "\r\n")
			hdr.Set("Content-Type", "text/parameters")
		}

	case base.Announce:
		hdr.Set("Content-Type", "application/sdp")
	}

	if rec.auth != nil {
		url := "*"
		if rec.url != nil {
			url = rec.url.CloneWithoutCredentials().String()
		}
		if v, err := rec.auth.Header(string(rec.method), url); err == nil {
			hdr.Set("Authorization", v)
		}
	}

	req := base.Request{
		Method: rec.method,
		URL:    rec.url,
		Header: hdr,
		Body:   rec.body,
	}

	if c.OnRequest != nil {
		c.OnRequest(&req)
	}

	return req.Marshal(), nil
}

func floatSecs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// transportForSetup builds the Transport header for a SETUP request from
// the flags staged on rec.
func (c *Client) transportForSetup(rec *requestRecord) *headers.Transport {
	t := &headers.Transport{}

	if rec.streamUsingTCP {
		t.Protocol = headers.ProtocolTCP
		unicast := headers.DeliveryUnicast
		t.Delivery = &unicast
		c.mu.Lock()
		id0 := c.tcpStreamIDCount
		c.tcpStreamIDCount += 2
		c.mu.Unlock()
		t.InterleavedIDs = &[2]int{id0, id0 + 1}
		if rec.subsess != nil {
			rec.subsess.RTPChannelID = id0
			rec.subsess.RTCPChannelID = id0 + 1
			rec.subsess.UsingTCP = true
		}
		return t
	}

	t.Protocol = headers.ProtocolUDP

	delivery := headers.DeliveryUnicast
	if rec.forceMulticastOnUnspecified {
		delivery = headers.DeliveryMulticast
	}
	t.Delivery = &delivery

	if rec.subsess != nil && rec.subsess.ClientPortNum != 0 {
		t.ClientPorts = &[2]int{rec.subsess.ClientPortNum, rec.subsess.ClientPortNum + 1}
	}

	return t
}
