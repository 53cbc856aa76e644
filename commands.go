package rtspclient

import (
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/auth"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/base"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/sdpsession"
)

// SetupFlags configures a Setup call.
type SetupFlags struct {
	StreamOutgoing              bool // RECORD-style, push media rather than pull it
	StreamUsingTCP              bool // interleave over the RTSP connection instead of UDP
	ForceMulticastOnUnspecified bool
}

// Describe sends a DESCRIBE for the client's base URL.
func (c *Client) Describe(handler ResponseHandler) int {
	return c.enqueue(&requestRecord{
		method:  base.Describe,
		url:     c.baseURL,
		auth:    c.currentAuth(),
		handler: handler,
	})
}

// Options sends an OPTIONS for the client's base URL.
func (c *Client) Options(handler ResponseHandler) int {
	return c.enqueue(&requestRecord{
		method:  base.Options,
		url:     c.baseURL,
		auth:    c.currentAuth(),
		handler: handler,
	})
}

// Announce pushes a new session description to the server.
func (c *Client) Announce(sdpBody []byte, handler ResponseHandler) int {
	return c.enqueue(&requestRecord{
		method:  base.Announce,
		url:     c.baseURL,
		body:    sdpBody,
		auth:    c.currentAuth(),
		handler: handler,
	})
}

// Setup establishes transport parameters for one subsession. session may be nil for a bare subsession not tied to a parsed
// DESCRIBE result.
func (c *Client) Setup(session *sdpsession.Session, ss *sdpsession.Subsession, flags SetupFlags, handler ResponseHandler) int {
	u, err := c.subsessionURL(session, ss)
	rec := &requestRecord{
		method:                      base.Setup,
		session:                     session,
		subsess:                     ss,
		streamOutgoing:              flags.StreamOutgoing,
		streamUsingTCP:              flags.StreamUsingTCP,
		forceMulticastOnUnspecified: flags.ForceMulticastOnUnspecified,
		auth:                        c.currentAuth(),
		handler:                     handler,
	}
	if err != nil {
		rec.cseq = c.nextCSeqValue()
		c.fireSync(rec, -1, "", err)
		return rec.cseq
	}
	rec.url = u
	return c.enqueue(rec)
}

// Play starts (or resumes) delivery for the whole session, or for a
// single subsession when ss is non-nil. start == -1 means "resume from where paused".
func (c *Client) Play(session *sdpsession.Session, ss *sdpsession.Subsession, start float64, end float64, hasEnd bool, scale float64, handler ResponseHandler) int {
	return c.playOrRecord(base.Play, session, ss, start, end, hasEnd, scale, handler)
}

// Record behaves like Play (same Range and Scale headers) but is used on
// the outgoing (ANNOUNCE/record) path.
func (c *Client) Record(session *sdpsession.Session, ss *sdpsession.Subsession, start float64, end float64, hasEnd bool, scale float64, handler ResponseHandler) int {
	return c.playOrRecord(base.Record, session, ss, start, end, hasEnd, scale, handler)
}

func (c *Client) playOrRecord(method base.Method, session *sdpsession.Session, ss *sdpsession.Subsession, start, end float64, hasEnd bool, scale float64, handler ResponseHandler) int {
	u, err := c.targetURL(session, ss)
	rec := &requestRecord{
		method:  method,
		session: session,
		subsess: ss,
		start:   start,
		end:     end,
		hasEnd:  hasEnd,
		scale:   scale,
		auth:    c.currentAuth(),
		handler: handler,
	}
	if err != nil {
		rec.cseq = c.nextCSeqValue()
		c.fireSync(rec, -1, "", err)
		return rec.cseq
	}
	rec.url = u
	return c.enqueue(rec)
}

// Pause suspends delivery without tearing down the session.
func (c *Client) Pause(session *sdpsession.Session, ss *sdpsession.Subsession, handler ResponseHandler) int {
	u, err := c.targetURL(session, ss)
	rec := &requestRecord{method: base.Pause, session: session, subsess: ss, auth: c.currentAuth(), handler: handler}
	if err != nil {
		rec.cseq = c.nextCSeqValue()
		c.fireSync(rec, -1, "", err)
		return rec.cseq
	}
	rec.url = u
	return c.enqueue(rec)
}

// Teardown ends the session, or a single subsession when ss is non-nil.
func (c *Client) Teardown(session *sdpsession.Session, ss *sdpsession.Subsession, handler ResponseHandler) int {
	u, err := c.targetURL(session, ss)
	rec := &requestRecord{method: base.Teardown, session: session, subsess: ss, auth: c.currentAuth(), handler: handler}
	if err != nil {
		rec.cseq = c.nextCSeqValue()
		c.fireSync(rec, -1, "", err)
		return rec.cseq
	}
	rec.url = u
	return c.enqueue(rec)
}

// SetParameter sets a session parameter to value, or sends the bodiless
// keep-alive form when name == "" (value is then ignored).
func (c *Client) SetParameter(session *sdpsession.Session, name string, value string, handler ResponseHandler) int {
	u, err := c.sessionURL(session)
	rec := &requestRecord{method: base.SetParameter, session: session, paramName: name, paramValue: value, auth: c.currentAuth(), handler: handler}
	if err != nil {
		rec.cseq = c.nextCSeqValue()
		c.fireSync(rec, -1, "", err)
		return rec.cseq
	}
	rec.url = u
	return c.enqueue(rec)
}

// GetParameter queries a session parameter, or sends the bodiless
// keep-alive form when name == "".
func (c *Client) GetParameter(session *sdpsession.Session, name string, handler ResponseHandler) int {
	u, err := c.sessionURL(session)
	rec := &requestRecord{method: base.GetParameter, session: session, paramName: name, auth: c.currentAuth(), handler: handler}
	if err != nil {
		rec.cseq = c.nextCSeqValue()
		c.fireSync(rec, -1, "", err)
		return rec.cseq
	}
	rec.url = u
	return c.enqueue(rec)
}

// ChangeResponseHandler rebinds an already-sent request's handler, for
// the (rare) case of a caller that wants to redirect delivery after the
// fact.
func (c *Client) ChangeResponseHandler(cseq int, handler ResponseHandler) bool {
	done := make(chan bool, 1)
	c.postEvent(&changeHandlerEvent{cseq: cseq, handler: handler, done: done})
	select {
	case ok := <-done:
		return ok
	case <-c.doneCh:
		return false
	}
}

// SetCredentials installs Basic/Digest credentials to be used on every
// subsequent request and retried automatically on a 401 challenge.
func (c *Client) SetCredentials(user, pass string) {
	c.mu.Lock()
	c.authenticator = auth.New(user, pass)
	c.mu.Unlock()
}

// targetURL resolves to the subsession URL when ss is non-nil, the
// session URL otherwise.
func (c *Client) targetURL(session *sdpsession.Session, ss *sdpsession.Subsession) (*base.URL, error) {
	if ss != nil {
		return c.subsessionURL(session, ss)
	}
	return c.sessionURL(session)
}
