package rtspclient

import (
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/liberrors"
)

// loop is the single goroutine that owns every piece of per-connection
// state: the queues, the CSeq table, the response buffer, the
// connection(s) themselves. Nothing outside this file, reader.go and
// connmanager.go's event posting touches that state, which is what lets
// the rest of the package stay lock-free.
func (c *Client) loop() {
	defer close(c.doneCh)

	for {
		select {
		case <-c.closeCh:
			c.enterFatal(liberrors.ErrClientTerminated{})
			return

		case ev := <-c.events:
			c.handleEvent(ev)
			if c.fatal {
				return
			}
		}
	}
}

func (c *Client) handleEvent(ev interface{}) {
	switch e := ev.(type) {
	case *requestRecord:
		c.onNewRecord(e)

	case *connConnectedEvent:
		c.onConnConnected(e)

	case *tunnelReadyEvent:
		c.onTunnelReady(e)

	case *readChunkEvent:
		c.onReadChunk(e)

	case *changeHandlerEvent:
		rec, ok := c.records[e.cseq]
		if ok {
			rec.handler = e.handler
		}
		e.done <- ok
	}
}

// changeHandlerEvent implements Client.ChangeResponseHandler: it is
// posted like any other event so the rebind happens on the loop
// goroutine, avoiding a race with concurrent delivery.
type changeHandlerEvent struct {
	cseq    int
	handler ResponseHandler
	done    chan bool
}

// onNewRecord routes a freshly submitted command into the correct queue
// depending on how far connection setup has progressed.
func (c *Client) onNewRecord(rec *requestRecord) {
	switch {
	case c.TunnelOverHTTPPort != 0:
		if c.tunnelUp {
			c.sendNow(rec)
			return
		}
		if c.connUp { // GET leg dialed, POST leg / handshake still pending
			rec.queue = queueAwaitingTunneling
			c.qTunneling.Enqueue(rec)
		} else {
			rec.queue = queueAwaitingConnection
			c.qConnection.Enqueue(rec)
			c.beginConnect()
		}

	default:
		if c.connUp {
			c.sendNow(rec)
			return
		}
		rec.queue = queueAwaitingConnection
		c.qConnection.Enqueue(rec)
		c.beginConnect()
	}
}

func (c *Client) onConnConnected(e *connConnectedEvent) {
	c.connecting = false

	if e.err != nil {
		c.enterFatal(e.err)
		return
	}

	if c.TunnelOverHTTPPort != 0 {
		// GET leg dialed; transition awaitingConnection -> awaitingHTTPTunneling.
		c.connUp = true
		for _, r := range c.qConnection.DrainAll() {
			rec := r.(*requestRecord)
			rec.queue = queueAwaitingTunneling
			c.qTunneling.Enqueue(rec)
		}
		return
	}

	c.mu.Lock()
	c.conn = e.conn
	c.mu.Unlock()
	c.connUp = true
	c.startReader(e.conn)
	for _, r := range c.qConnection.DrainAll() {
		c.sendNow(r.(*requestRecord))
	}
}

func (c *Client) onTunnelReady(e *tunnelReadyEvent) {
	c.connecting = false

	if e.err != nil {
		c.enterFatal(e.err)
		return
	}

	c.mu.Lock()
	c.tun = e.tun
	c.mu.Unlock()
	c.tunnelUp = true
	c.startReader(e.tun.GetConn)
	for _, r := range c.qTunneling.DrainAll() {
		c.sendNow(r.(*requestRecord))
	}
}

func (c *Client) onReadChunk(e *readChunkEvent) {
	if e.err != nil {
		c.enterFatal(liberrors.ErrRead{Err: e.err})
		return
	}
	if err := c.feedBytes(e.data); err != nil {
		c.enterFatal(err)
	}
}

// sendNow serializes and writes rec, moving it into the response queue
// and CSeq table.
func (c *Client) sendNow(rec *requestRecord) {
	raw, err := c.buildRequest(rec)
	if err != nil {
		c.deliver(rec, -1, "", err)
		return
	}
	rec.raw = raw

	if err := c.writeRaw(raw); err != nil {
		werr := liberrors.ErrWrite{Err: err}
		c.deliver(rec, -1, "", werr)
		c.enterFatal(werr)
		return
	}

	rec.queue = queueAwaitingResponse
	c.records[rec.cseq] = rec
	c.qResponse.Enqueue(rec)
}

// writeRaw writes pre-serialized bytes to whichever output leg is
// active. Both legs are dialed through Client.dial, so deadlines are
// already applied by pkg/conn.Conn.
func (c *Client) writeRaw(raw []byte) error {
	if c.tun != nil {
		return c.tun.WriteRTSP(raw)
	}
	if c.conn != nil {
		_, err := c.conn.Write(raw)
		return err
	}
	return liberrors.ErrClientTerminated{}
}

// enterFatal drains every queue with err and marks the client dead,
// refusing all further sends.
func (c *Client) enterFatal(err error) {
	if c.fatal {
		return
	}
	c.fatal = true
	c.closed.Store(true)

	for _, r := range c.qConnection.DrainAll() {
		c.deliver(r.(*requestRecord), -1, "", err)
	}
	for _, r := range c.qTunneling.DrainAll() {
		c.deliver(r.(*requestRecord), -1, "", err)
	}
	// qResponse and c.records are populated together in sendNow, so
	// draining one drains the other; deliver once per record.
	for _, r := range c.qResponse.DrainAll() {
		rec := r.(*requestRecord)
		delete(c.records, rec.cseq)
		c.deliver(rec, -1, "", err)
	}

	if c.conn != nil {
		c.conn.Close()
	}
	if c.tun != nil {
		c.tun.Close()
	}
}
