// Package liberrors contains the typed errors returned by the client core.
package liberrors

import (
	"fmt"

	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/base"
)

// ErrClientTerminated is returned to every queued request when the client
// is destroyed or has entered its fatal state.
type ErrClientTerminated struct {
	Reason error
}

func (e ErrClientTerminated) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("client terminated: %v", e.Reason)
	}
	return "client terminated"
}

// ErrConnect is returned when the non-blocking connect fails.
type ErrConnect struct {
	Err error
}

func (e ErrConnect) Error() string { return fmt.Sprintf("connect failed: %v", e.Err) }

// ErrWrite is returned when serializing a request to the output socket fails.
type ErrWrite struct {
	Err error
}

func (e ErrWrite) Error() string { return fmt.Sprintf("write failed: %v", e.Err) }

// ErrRead is returned when the input socket returns an error, or returns
// zero bytes with no error (server closed the connection).
type ErrRead struct {
	Err error
}

func (e ErrRead) Error() string { return fmt.Sprintf("read failed: %v", e.Err) }

// ErrResponseBufferFull is returned when a response does not complete its
// header block before the fixed-capacity response buffer is exhausted.
type ErrResponseBufferFull struct {
	Capacity int
}

func (e ErrResponseBufferFull) Error() string {
	return fmt.Sprintf("response buffer full (capacity %d) before end of headers", e.Capacity)
}

// ErrMalformedStatusLine is returned when the first line of a response
// cannot be parsed as a status line.
type ErrMalformedStatusLine struct {
	Line string
}

func (e ErrMalformedStatusLine) Error() string {
	return fmt.Sprintf("malformed status line: %q", e.Line)
}

// ErrMalformedHeader is returned when a header block fails to parse.
type ErrMalformedHeader struct {
	Err error
}

func (e ErrMalformedHeader) Error() string { return fmt.Sprintf("malformed header: %v", e.Err) }

// ErrAuthFailed is returned when a second consecutive 401 is received for
// the same request.
type ErrAuthFailed struct{}

func (e ErrAuthFailed) Error() string { return "authentication failed" }

// ErrNoAuthenticator is returned when a 401 is received but the request
// was not given an Authenticator to retry with.
type ErrNoAuthenticator struct{}

func (e ErrNoAuthenticator) Error() string { return "401 received, no authenticator configured" }

// ErrMalformedURL is returned by the constructor when the configured base
// URL cannot be parsed; the client is still created, but every
// subsequent command fails immediately with this error.
type ErrMalformedURL struct {
	Err error
}

func (e ErrMalformedURL) Error() string { return fmt.Sprintf("malformed RTSP URL: %v", e.Err) }

// ErrHTTPTunnelSetupFailed is returned when either leg of the HTTP
// tunneling handshake fails to establish.
type ErrHTTPTunnelSetupFailed struct {
	Err error
}

func (e ErrHTTPTunnelSetupFailed) Error() string {
	return fmt.Sprintf("HTTP tunnel setup failed: %v", e.Err)
}

// ErrHTTPTunnelRequestFailed is returned when the GET leg of the tunnel
// receives a non-200 HTTP status.
type ErrHTTPTunnelRequestFailed struct {
	StatusCode int
	Status     string
}

func (e ErrHTTPTunnelRequestFailed) Error() string {
	return fmt.Sprintf("HTTP tunnel request failed: %d %s", e.StatusCode, e.Status)
}

// ErrWrongStatusCode wraps a non-2xx, non-401 RTSP response.
type ErrWrongStatusCode struct {
	Code    base.StatusCode
	Message string
}

func (e ErrWrongStatusCode) Error() string {
	return fmt.Sprintf("wrong status code: %d (%s)", e.Code, e.Message)
}

// ErrInterleavedFrameTooLarge is returned when a $-framed interleaved
// packet declares a length exceeding the configured maximum.
type ErrInterleavedFrameTooLarge struct {
	Length int
	Max    int
}

func (e ErrInterleavedFrameTooLarge) Error() string {
	return fmt.Sprintf("interleaved frame length %d exceeds maximum %d", e.Length, e.Max)
}
