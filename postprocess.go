package rtspclient

import (
	"strconv"
	"strings"

	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/base"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/headers"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/liberrors"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/sdpsession"
)

// handleResponse matches an arriving response to its record by CSeq and
// either retries it once after a 401 or post-processes and delivers it
// to its handler.
func (c *Client) handleResponse(resp *base.Response) {
	if c.OnResponse != nil {
		c.OnResponse(resp)
	}

	cseqStr, ok := resp.Header.Get("CSeq")
	if !ok {
		return // no way to match it to a record; silently dropped
	}
	cseq, err := strconv.Atoi(strings.TrimSpace(cseqStr))
	if err != nil {
		return
	}

	rec, ok := c.records[cseq]
	if !ok {
		return
	}

	if resp.StatusCode == base.StatusUnauthorized {
		c.handleUnauthorized(rec, resp)
		return
	}

	delete(c.records, cseq)
	c.qResponse.Remove(rec)

	if resp.StatusCode.IsRedirect() {
		location, _ := resp.Header.Get("Location")
		if c.OnRedirect != nil {
			c.OnRedirect(resp, location)
		}
		// surfaced as a plain (non-error) result so the synchronous
		// façade can follow it; the async core never follows redirects
		// itself.
		c.deliver(rec, int(resp.StatusCode), location, nil)
		return
	}

	if !resp.StatusCode.IsSuccess() {
		c.deliver(rec, int(resp.StatusCode), resp.StatusMessage,
			liberrors.ErrWrongStatusCode{Code: resp.StatusCode, Message: resp.StatusMessage})
		return
	}

	c.postProcessSuccess(rec, resp)
}

// postProcessSuccess applies the per-method response side effects before
// invoking the handler with the 2xx result.
func (c *Client) postProcessSuccess(rec *requestRecord, resp *base.Response) {
	switch rec.method {
	case base.Setup:
		c.postProcessSetup(rec, resp)

	case base.Play, base.Record:
		c.postProcessPlay(rec, resp)

	case base.Teardown:
		c.postProcessTeardown(rec)
	}

	if sessionHdr, ok := resp.Header.Get("Session"); ok && rec.method != base.Teardown {
		if s, err := headers.ParseSession(sessionHdr); err == nil {
			c.mu.Lock()
			c.sessionID = s.ID
			if s.Timeout != nil {
				c.sessionTimeout = *s.Timeout
			}
			c.mu.Unlock()
		}
	}

	result := string(resp.Body)
	c.deliver(rec, 0, result, nil)
}

func (c *Client) postProcessSetup(rec *requestRecord, resp *base.Response) {
	th, ok := resp.Header.Get("Transport")
	if !ok || rec.subsess == nil {
		return
	}
	t, err := headers.ParseTransport(th)
	if err != nil {
		return
	}

	ss := rec.subsess
	if t.ServerPorts != nil {
		ss.ServerPortNum = t.ServerPorts[0]
	}
	if t.InterleavedIDs != nil {
		ss.RTPChannelID = t.InterleavedIDs[0]
		ss.RTCPChannelID = t.InterleavedIDs[1]
		ss.UsingTCP = true
		if ss.RTPSink != nil {
			c.tcpSinks[uint8(ss.RTPChannelID)] = ss.RTPSink
		}
		if ss.RTCPSink != nil {
			c.tcpSinks[uint8(ss.RTCPChannelID)] = ss.RTCPSink
		}
		c.tcpSubsess[uint8(ss.RTPChannelID)] = ss
		c.tcpSubsess[uint8(ss.RTCPChannelID)] = ss
	}
	if t.Source != nil {
		ss.ConnectionEndpointName = *t.Source
	}
	if t.Delivery != nil {
		ss.Multicast = *t.Delivery == headers.DeliveryMulticast
	}
}

func (c *Client) postProcessPlay(rec *requestRecord, resp *base.Response) {
	var rtpInfo headers.RTPInfo
	if v, ok := resp.Header.Get("RTP-Info"); ok {
		if parsed, err := headers.ParseRTPInfo(v); err == nil {
			rtpInfo = parsed
		}
	}

	apply := func(ss *sdpsession.Subsession) {
		if v, ok := resp.Header.Get("Range"); ok {
			if r, err := headers.ParseRange(v); err == nil {
				ss.RangeFrom = r.Start
				ss.RangeTo = r.End
			}
		}

		if v, ok := resp.Header.Get("Scale"); ok {
			if scale, err := strconv.ParseFloat(v, 64); err == nil {
				ss.Scale = scale
			}
		} else {
			ss.Scale = rec.scale
		}

		for _, e := range rtpInfo {
			if strings.HasSuffix(e.URL, ss.ControlPath) {
				ss.LastSequenceNumber = e.SequenceNumber
				ss.LastTimestamp = e.RTPTime
			}
		}
	}

	if rec.subsess != nil {
		apply(rec.subsess)
		return
	}
	if rec.session != nil {
		for _, ss := range rec.session.Subsessions {
			apply(ss)
		}
	}
}

func (c *Client) postProcessTeardown(rec *requestRecord) {
	if rec.subsess != nil {
		delete(c.tcpSinks, uint8(rec.subsess.RTPChannelID))
		delete(c.tcpSinks, uint8(rec.subsess.RTCPChannelID))
		delete(c.tcpSubsess, uint8(rec.subsess.RTPChannelID))
		delete(c.tcpSubsess, uint8(rec.subsess.RTCPChannelID))
		return
	}
	for ch := range c.tcpSinks {
		delete(c.tcpSinks, ch)
	}
	for ch := range c.tcpSubsess {
		delete(c.tcpSubsess, ch)
	}
	c.mu.Lock()
	c.sessionID = ""
	c.sessionTimeout = 0
	c.mu.Unlock()
}

// handleUnauthorized implements single-retry 401 handling: update the
// authenticator's challenge from WWW-Authenticate, reassign a fresh CSeq
// and resend once, and fail for good on a second consecutive 401.
func (c *Client) handleUnauthorized(rec *requestRecord, resp *base.Response) {
	if rec.got401 || rec.auth == nil {
		delete(c.records, rec.cseq)
		c.qResponse.Remove(rec)
		err := error(liberrors.ErrAuthFailed{})
		if rec.auth == nil {
			err = liberrors.ErrNoAuthenticator{}
		}
		c.deliver(rec, int(resp.StatusCode), resp.StatusMessage, err)
		return
	}

	wwwAuth, _ := resp.Header["WWW-Authenticate"]
	if err := rec.auth.SetChallenge(wwwAuth); err != nil {
		delete(c.records, rec.cseq)
		c.qResponse.Remove(rec)
		c.deliver(rec, int(resp.StatusCode), resp.StatusMessage, liberrors.ErrAuthFailed{})
		return
	}

	rec.got401 = true
	delete(c.records, rec.cseq)
	c.qResponse.Remove(rec)
	rec.cseq = c.nextCSeqValue()
	c.sendNow(rec)
}

// handleServerRequest answers a server-initiated request with
// 501 Not Implemented: this client core does not act as an RTSP server
// and has no handler for any method a server might push.
func (c *Client) handleServerRequest(firstLine string, hdr base.Header, body []byte) {
	method, _, ok := base.ParseRequestLine(firstLine)
	if !ok {
		return
	}

	cseq, _ := hdr.Get("CSeq")

	respHdr := make(base.Header)
	if cseq != "" {
		respHdr.Set("CSeq", cseq)
	}

	resp := base.Response{StatusCode: base.StatusNotImplemented, Header: respHdr}
	c.writeRaw(resp.Marshal())

	_ = method
	_ = body
}

// deliver invokes rec's handler, if any, and is always the last thing
// done with rec. A positive code (a server status) is delivered as is;
// otherwise a non-nil err is mapped to a negative code by errnoOf.
func (c *Client) deliver(rec *requestRecord, code int, result string, err error) {
	if rec.handler == nil {
		return
	}
	if err != nil && code <= 0 {
		code = errnoOf(err)
	}
	rec.handler(c, code, result)
}
