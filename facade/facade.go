// Package facade is a synchronous wrapper built atop the asynchronous
// client core, for callers that would rather block than supply response
// handlers. It is deliberately thin: every call here just drives the
// async core until a dedicated oneshot fires, with a timer enforcing the
// timeout.
package facade

import (
	"fmt"
	"time"

	rtspclient "github.com/GlobalInvacomGroupLimited/rtspclient"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/sdpsession"
)

// DefaultTimeout bounds every synchronous call below when the caller
// does not override it.
const DefaultTimeout = 10 * time.Second

// Result is what a synchronous call resolves to.
type Result struct {
	Code int
	Body string
}

// Session pairs a *rtspclient.Client with the synchronous call surface.
// One Session wraps exactly one Client, matching the one-URL-per-Client
// restriction of the core.
type Session struct {
	Client  *rtspclient.Client
	Timeout time.Duration
}

// New wraps an existing async Client.
func New(c *rtspclient.Client) *Session {
	return &Session{Client: c, Timeout: DefaultTimeout}
}

// call drives submit (which must enqueue exactly one command against s.Client)
// to completion, returning its result or a timeout error.
func (s *Session) call(submit func(rtspclient.ResponseHandler) int) (Result, error) {
	done := make(chan Result, 1)
	submit(func(c *rtspclient.Client, code int, result string) {
		done <- Result{Code: code, Body: result}
	})

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	select {
	case r := <-done:
		return r, nil
	case <-time.After(timeout):
		return Result{}, fmt.Errorf("rtsp: timed out waiting for response")
	}
}

// Describe blocks for a DESCRIBE response, following a single 3xx
// redirect automatically when RedirectDisable is false: the result's
// Location header (carried as Result.Body per the core's redirect
// delivery) becomes a fresh Client the Session rebinds to before
// retrying the DESCRIBE once.
func (s *Session) Describe() (*sdpsession.Session, error) {
	r, err := s.call(s.Client.Describe)
	if err != nil {
		return nil, err
	}

	if r.Code >= 300 && r.Code < 400 {
		if s.Client.RedirectDisable {
			return nil, fmt.Errorf("rtsp: DESCRIBE redirected to %s (RedirectDisable is set)", r.Body)
		}
		s.followRedirect(r.Body)
		r, err = s.call(s.Client.Describe)
		if err != nil {
			return nil, err
		}
	}

	if r.Code != 0 {
		return nil, fmt.Errorf("rtsp: DESCRIBE failed with code %d", r.Code)
	}

	return sdpsession.Parse([]byte(r.Body))
}

// followRedirect rebinds the session to a fresh Client at location,
// closing the one it replaces. Describe uses this for its single
// automatic redirect hop, keeping "one URL per Client for its lifetime"
// true at the core level; Setup instead rewrites the subsession's
// control path and keeps the same Client.
func (s *Session) followRedirect(location string) {
	old := s.Client
	nc := rtspclient.New(location, 0, old.UserAgent, old.TunnelOverHTTPPort)
	nc.ReadTimeout = old.ReadTimeout
	nc.WriteTimeout = old.WriteTimeout
	nc.ConnectTimeout = old.ConnectTimeout
	nc.TLSConfig = old.TLSConfig
	nc.RedirectDisable = old.RedirectDisable
	nc.DialContext = old.DialContext
	s.Client = nc
	old.Close()
}

// Options blocks for an OPTIONS response.
func (s *Session) Options() (Result, error) {
	return s.call(s.Client.Options)
}

// Setup blocks for a SETUP response, following a single 3xx redirect
// automatically when RedirectDisable is false: the subsession's control
// path is rewritten to the absolute Location and the SETUP is retried
// once against it.
func (s *Session) Setup(session *sdpsession.Session, ss *sdpsession.Subsession, flags rtspclient.SetupFlags) (Result, error) {
	r, err := s.call(func(h rtspclient.ResponseHandler) int {
		return s.Client.Setup(session, ss, flags, h)
	})
	if err != nil {
		return Result{}, err
	}

	if r.Code >= 300 && r.Code < 400 && ss != nil {
		if s.Client.RedirectDisable {
			return r, fmt.Errorf("rtsp: SETUP redirected to %s (RedirectDisable is set)", r.Body)
		}
		ss.ControlPath = r.Body
		return s.call(func(h rtspclient.ResponseHandler) int {
			return s.Client.Setup(session, ss, flags, h)
		})
	}

	return r, nil
}

// Play blocks for a PLAY response.
func (s *Session) Play(session *sdpsession.Session, ss *sdpsession.Subsession, start, end float64, hasEnd bool, scale float64) (Result, error) {
	return s.call(func(h rtspclient.ResponseHandler) int {
		return s.Client.Play(session, ss, start, end, hasEnd, scale, h)
	})
}

// Pause blocks for a PAUSE response.
func (s *Session) Pause(session *sdpsession.Session, ss *sdpsession.Subsession) (Result, error) {
	return s.call(func(h rtspclient.ResponseHandler) int {
		return s.Client.Pause(session, ss, h)
	})
}

// Teardown blocks for a TEARDOWN response.
func (s *Session) Teardown(session *sdpsession.Session, ss *sdpsession.Subsession) (Result, error) {
	return s.call(func(h rtspclient.ResponseHandler) int {
		return s.Client.Teardown(session, ss, h)
	})
}

// KeepAlive sends the bodiless SET_PARAMETER form LIVE555 uses to keep a
// session alive between PLAYs.
func (s *Session) KeepAlive(session *sdpsession.Session) error {
	_, err := s.call(func(h rtspclient.ResponseHandler) int {
		return s.Client.SetParameter(session, "", "", h)
	})
	return err
}

// KeepAliveInterval returns the recommended keep-alive period: the
// server-advertised session timeout, halved for safety margin, or 30s
// (half of RFC 2326 §12.37's 60s default) when none was ever seen.
func (s *Session) KeepAliveInterval() time.Duration {
	t := s.Client.SessionTimeoutParameter()
	if t == 0 {
		return 30 * time.Second
	}
	return time.Duration(t) * time.Second / 2
}
