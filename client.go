package rtspclient

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GlobalInvacomGroupLimited/rtspclient/internal/reqqueue"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/auth"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/base"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/liberrors"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/sdpsession"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/tunnel"
	"github.com/pion/rtcp"
)

// DefaultResponseBufferSize is the default capacity of the response
// reassembly buffer. It is a per-Client field, not process-wide state.
const DefaultResponseBufferSize = 20000

// defaultUserAgent is used when UserAgent is left empty.
const defaultUserAgent = "rtspclient"

// Client is a RTSP client bound to a single rtsp:// URL. One Client handles one URL for its entire lifetime; it is
// not safe to point the same Client at a second URL.
type Client struct {
	// ReadTimeout is applied to every read from the RTSP connection(s).
	// Zero disables the deadline. Defaults to 10s.
	ReadTimeout time.Duration
	// WriteTimeout is applied to every write. Zero disables the
	// deadline. Defaults to 10s.
	WriteTimeout time.Duration
	// ConnectTimeout bounds the initial (non-blocking, from the
	// caller's perspective) connect. Defaults to 10s.
	ConnectTimeout time.Duration
	// TLSConfig configures rtsps:// connections. Defaults to nil
	// (InsecureSkipVerify is never assumed; callers must opt in).
	TLSConfig *tls.Config
	// UserAgent is sent as User-Agent on every request. Defaults to
	// "rtspclient".
	UserAgent string
	// RedirectDisable, when true, stops the synchronous façade (see
	// package facade) from automatically following a 3xx DESCRIBE/SETUP
	// response. The async core
	// always just reports the 3xx like any other non-2xx.
	RedirectDisable bool
	// ResponseBufferSize is the fixed capacity of the response
	// reassembly buffer. Defaults to
	// DefaultResponseBufferSize. New allocates the buffer with this
	// size; changing the field after New does not resize it.
	ResponseBufferSize int
	// TunnelOverHTTPPort, when non-zero, enables RTSP-over-HTTP
	// tunneling.
	TunnelOverHTTPPort int
	// DialContext dials the TCP connection(s). Defaults to
	// (&net.Dialer{}).DialContext.
	DialContext func(ctx context.Context, network, address string) (net.Conn, error)

	// OnRequest, when set, is called just before every request is
	// serialized onto the wire.
	OnRequest func(*base.Request)
	// OnResponse, when set, is called just after every response is
	// parsed, before dispatch to its handler.
	OnResponse func(*base.Response)
	// OnInterleavedFrame, when set, receives every demultiplexed
	// interleaved RTP/RTCP packet not claimed by a registered
	// subsession sink.
	OnInterleavedFrame func(channel uint8, payload []byte)
	// OnRedirect, when set, is called when a response to any request
	// carries a 3xx status, before the result is delivered to the
	// request's handler.
	OnRedirect func(resp *base.Response, location string)
	// OnRTCPPacket, when set, receives decoded RTCP packets demultiplexed
	// off a subsession's interleaved RTCP channel, in addition to the raw
	// bytes its RTCPSink already received. Decoding (unlike the raw byte
	// hand-off) is optional, since not every caller needs typed access.
	OnRTCPPacket func(ss *sdpsession.Subsession, pkts []rtcp.Packet)

	baseURL   *base.URL
	urlErr    error
	verbosity int

	nextCSeq int64 // atomic; next value handed out starts at 1

	mu               sync.Mutex // guards the fields below, read by public getters
	sessionID        string
	sessionTimeout   uint
	tcpStreamIDCount int
	authenticator    auth.Authenticator

	// dispatch-loop-owned state; touched only on the loop goroutine
	conn        net.Conn
	tun         *tunnel.Tunnel
	connUp      bool
	tunnelUp    bool
	connecting  bool
	fatal       bool
	records     map[int]*requestRecord
	qConnection *reqqueue.Queue
	qTunneling  *reqqueue.Queue
	qResponse   *reqqueue.Queue
	respBuf     []byte
	bytesSeen   int
	tcpSinks    map[uint8]func(payload []byte)
	tcpSubsess  map[uint8]*sdpsession.Subsession

	events    chan interface{}
	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	doneCh    chan struct{}
	loopOnce  sync.Once
}

// New allocates a Client bound to rawURL. A malformed URL does not fail
// the constructor; the Client is still created, but every subsequent
// command fails immediately with a local error.
func New(rawURL string, verbosityLevel int, applicationName string, tunnelOverHTTPPort int) *Client {
	c := &Client{
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		ConnectTimeout:     10 * time.Second,
		UserAgent:          applicationName,
		ResponseBufferSize: DefaultResponseBufferSize,
		TunnelOverHTTPPort: tunnelOverHTTPPort,
		DialContext:        (&net.Dialer{}).DialContext,
		verbosity:          verbosityLevel,
		records:            make(map[int]*requestRecord),
		qConnection:        reqqueue.New(),
		qTunneling:         reqqueue.New(),
		qResponse:          reqqueue.New(),
		tcpSinks:           make(map[uint8]func(payload []byte)),
		tcpSubsess:         make(map[uint8]*sdpsession.Subsession),
		events:             make(chan interface{}, 64),
		closeCh:            make(chan struct{}),
		doneCh:             make(chan struct{}),
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}

	u, err := base.ParseURL(rawURL)
	if err != nil {
		c.urlErr = liberrors.ErrMalformedURL{Err: err}
	} else {
		c.baseURL = u
	}

	c.respBuf = make([]byte, c.ResponseBufferSize)

	return c
}

// currentAuth returns the installed Authenticator, if any.
func (c *Client) currentAuth() auth.Authenticator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticator
}

// SetUserAgentString updates the User-Agent sent with future requests.
func (c *Client) SetUserAgentString(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UserAgent = name
}

// SessionTimeoutParameter returns the session-timeout value most
// recently advertised by the server in a SETUP response's Session
// header, or 0 if none has been seen.
func (c *Client) SessionTimeoutParameter() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionTimeout
}

// sessionID and sessionTimeout are updated by the dispatch loop in
// postprocess.go, under mu.

// InputConn returns the socket used for reading responses. During
// HTTP tunneling this differs from OutputConn.
func (c *Client) InputConn() net.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tun != nil {
		return c.tun.GetConn
	}
	return c.conn
}

// OutputConn returns the socket used for writing requests.
func (c *Client) OutputConn() net.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tun != nil {
		return c.tun.PostConn
	}
	return c.conn
}

// Close destroys the client: every pending or in-flight request is
// aborted with a local error, and the
// client refuses all further sends.
func (c *Client) Close() {
	c.ensureLoop()
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.closeCh)
	})
	<-c.doneCh
}

// ensureLoop lazily starts the single dispatch-loop goroutine that owns
// all per-connection state.
func (c *Client) ensureLoop() {
	c.loopOnce.Do(func() {
		go c.loop()
	})
}

// nextCSeqValue assigns the next CSeq. It is a plain atomic counter,
// independent from the single-goroutine queue/record state, so that the
// "every sendX call returns a strictly greater CSeq" invariant
// holds even for calls racing to submit before the loop processes either.
func (c *Client) nextCSeqValue() int {
	return int(atomic.AddInt64(&c.nextCSeq, 1))
}

// enqueue assigns a CSeq to rec and submits it to the dispatch loop,
// starting the loop on first use. If the client is already closed, the
// handler fires synchronously with a local error before enqueue returns
// -- the one documented exception to "handlers never fire synchronously".
func (c *Client) enqueue(rec *requestRecord) int {
	rec.cseq = c.nextCSeqValue()

	if c.urlErr != nil {
		c.fireSync(rec, -1, "", c.urlErr)
		return rec.cseq
	}

	if c.closed.Load() {
		c.fireSync(rec, -1, "", liberrors.ErrClientTerminated{})
		return rec.cseq
	}

	c.ensureLoop()

	select {
	case c.events <- rec:
	case <-c.doneCh:
		c.fireSync(rec, -1, "", liberrors.ErrClientTerminated{})
	}

	return rec.cseq
}

// fireSync invokes a handler directly, for the pre-send-failure
// exception path described above. errnoOf maps the error to a negative
// result code.
func (c *Client) fireSync(rec *requestRecord, code int, result string, err error) {
	if rec.handler == nil {
		return
	}
	if err != nil {
		code = errnoOf(err)
	}
	rec.handler(c, code, result)
}

// errnoOf maps a local error to a negative result code.
func errnoOf(err error) int {
	if err == nil {
		return 0
	}
	var v interface {
		Timeout() bool
	}
	if errors.As(err, &v) && v.Timeout() {
		return -110 // ETIMEDOUT
	}
	return -1
}
