package rtspclient

import (
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/base"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/sdpsession"
)

// sessionURL resolves the request-URI used for aggregate session-level
// requests.
func (c *Client) sessionURL(session *sdpsession.Session) (*base.URL, error) {
	if c.baseURL == nil {
		return nil, c.urlErr
	}
	if session == nil || session.SessionControlPath == "" {
		return c.baseURL, nil
	}
	return c.baseURL.AppendControlPath(session.SessionControlPath)
}

// subsessionURL resolves the request-URI for a per-subsession request
// (SETUP, or PLAY/PAUSE aimed at a single track), joining the session's
// control path and the subsession's own.
func (c *Client) subsessionURL(session *sdpsession.Session, ss *sdpsession.Subsession) (*base.URL, error) {
	if c.baseURL == nil {
		return nil, c.urlErr
	}
	sessBase := c.baseURL
	if session != nil && session.SessionControlPath != "" {
		u, err := c.baseURL.AppendControlPath(session.SessionControlPath)
		if err != nil {
			return nil, err
		}
		sessBase = u
	}
	return sessBase.AppendControlPath(ss.ControlPath)
}
