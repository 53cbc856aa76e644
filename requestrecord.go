package rtspclient

import (
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/auth"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/base"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/sdpsession"
)

// ResponseHandler is the capability invoked once a request's response
// arrives, or once it is known the request can never be answered.
//
// resultCode == 0 means success; > 0 is the RTSP status code; < 0 is a
// local error and -resultCode is an errno-like code.
// resultString may be non-nil even on error, carrying the server's
// reason phrase or the command's result payload (e.g. the SDP body for
// DESCRIBE).
type ResponseHandler func(c *Client, resultCode int, resultString string)

// queueRole identifies which of the client's three queues currently owns
// a requestRecord.
type queueRole int

const (
	queueNone queueRole = iota
	queueAwaitingConnection
	queueAwaitingTunneling
	queueAwaitingResponse
)

// requestRecord is one outstanding command.
type requestRecord struct {
	cseq    int
	method  base.Method
	url     *base.URL // resolved request-URI, computed by the caller in commands.go
	session *sdpsession.Session
	subsess *sdpsession.Subsession

	streamOutgoing              bool
	streamUsingTCP              bool
	forceMulticastOnUnspecified bool

	start, end float64
	hasEnd     bool
	scale      float64

	paramName  string // GET_PARAMETER/SET_PARAMETER name, "" for the bodiless keep-alive form
	paramValue string // SET_PARAMETER value; unused by GET_PARAMETER
	body       []byte

	handler ResponseHandler
	auth    auth.Authenticator

	queue  queueRole
	raw    []byte // serialized bytes of the latest send; a resend after 401 is rebuilt with a new CSeq
	got401 bool
}

// CSeq implements reqqueue.Record.
func (r *requestRecord) CSeq() int { return r.cseq }
