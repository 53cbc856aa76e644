package rtspclient

import (
	"strconv"
	"strings"

	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/base"
	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/liberrors"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
)

// feedBytes appends newly read bytes to the response buffer and drains
// as many complete messages as possible. It returns a local error if the
// fixed-capacity buffer fills before a complete message is seen, so the
// buffer never grows past ResponseBufferSize.
func (c *Client) feedBytes(data []byte) error {
	if c.bytesSeen+len(data) > len(c.respBuf) {
		return liberrors.ErrResponseBufferFull{Capacity: len(c.respBuf)}
	}
	copy(c.respBuf[c.bytesSeen:], data)
	c.bytesSeen += len(data)

	for {
		consumed, err := c.drainOneMessage()
		if err != nil {
			return err
		}
		if consumed == 0 {
			return nil
		}
		c.shiftBuffer(consumed)
	}
}

func (c *Client) shiftBuffer(n int) {
	copy(c.respBuf, c.respBuf[n:c.bytesSeen])
	c.bytesSeen -= n
}

// drainOneMessage attempts to parse exactly one interleaved frame or one
// RTSP message (request or response) from the front of the buffer.
// consumed == 0 means "not enough data yet, keep reading".
func (c *Client) drainOneMessage() (consumed int, err error) {
	if c.bytesSeen == 0 {
		return 0, nil
	}

	if c.respBuf[0] == base.InterleavedFrameMagic {
		return c.drainInterleavedFrame()
	}

	return c.drainTextMessage()
}

// drainInterleavedFrame handles a $-framed RTP/RTCP packet multiplexed
// onto the RTSP connection.
func (c *Client) drainInterleavedFrame() (int, error) {
	if c.bytesSeen < base.InterleavedFrameHeaderLen {
		return 0, nil
	}

	channel, length, ok := base.ParseInterleavedFrameHeader(c.respBuf[:c.bytesSeen])
	if !ok {
		return 0, liberrors.ErrMalformedHeader{Err: errMalformedInterleavedHeader}
	}

	if length > len(c.respBuf)-base.InterleavedFrameHeaderLen {
		return 0, liberrors.ErrInterleavedFrameTooLarge{Length: length, Max: len(c.respBuf) - base.InterleavedFrameHeaderLen}
	}

	total := base.InterleavedFrameHeaderLen + length
	if c.bytesSeen < total {
		return 0, nil
	}

	payload := make([]byte, length)
	copy(payload, c.respBuf[base.InterleavedFrameHeaderLen:total])

	c.dispatchInterleavedFrame(channel, payload)

	return total, nil
}

func (c *Client) dispatchInterleavedFrame(channel uint8, payload []byte) {
	if sink, ok := c.tcpSinks[channel]; ok {
		sink(payload)
		c.decodeForSubsession(channel, payload)
		return
	}
	if c.OnInterleavedFrame != nil {
		c.OnInterleavedFrame(channel, payload)
	}
}

// decodeForSubsession keeps a subsession's RTP sequence/timestamp state
// current and, on its RTCP channel, surfaces typed packets via
// OnRTCPPacket, alongside the raw byte hand-off. It does no payload-type
// or clock-rate lookup.
func (c *Client) decodeForSubsession(channel uint8, payload []byte) {
	ss, ok := c.tcpSubsess[channel]
	if !ok {
		return
	}

	if int(channel) == ss.RTPChannelID {
		var pkt rtp.Packet
		if err := pkt.Unmarshal(payload); err == nil {
			ss.LastSequenceNumber = pkt.SequenceNumber
			ss.LastTimestamp = pkt.Timestamp
		}
		return
	}

	if int(channel) == ss.RTCPChannelID && c.OnRTCPPacket != nil {
		if pkts, err := rtcp.Unmarshal(payload); err == nil {
			c.OnRTCPPacket(ss, pkts)
		}
	}
}

// drainTextMessage handles a textual RTSP message: either a response to
// one of our own requests, or a server-initiated request.
func (c *Client) drainTextMessage() (int, error) {
	headerEnd := indexHeaderEnd(c.respBuf[:c.bytesSeen])
	if headerEnd < 0 {
		return 0, nil
	}

	headerBlock := string(c.respBuf[:headerEnd])
	lines := strings.Split(headerBlock, "\r\n")
	firstLine := lines[0]
	headerLines := lines[1:]

	hdr, err := base.ParseHeaderBlock(headerLines)
	if err != nil {
		return 0, liberrors.ErrMalformedHeader{Err: err}
	}

	bodyLen := 0
	if cl, ok := hdr.Get("Content-Length"); ok {
		n, convErr := strconv.Atoi(strings.TrimSpace(cl))
		if convErr == nil {
			bodyLen = n
		}
	}

	total := headerEnd + 4 + bodyLen
	if c.bytesSeen < total {
		return 0, nil
	}

	body := make([]byte, bodyLen)
	copy(body, c.respBuf[headerEnd+4:total])

	if _, _, isRequest := base.ParseRequestLine(firstLine); isRequest {
		c.handleServerRequest(firstLine, hdr, body)
		return total, nil
	}

	_, code, reason, perr := base.ParseStatusLine(firstLine)
	if perr != nil {
		return 0, liberrors.ErrMalformedStatusLine{Line: firstLine}
	}

	resp := &base.Response{StatusCode: code, StatusMessage: reason, Header: hdr, Body: body}
	c.handleResponse(resp)

	return total, nil
}

// indexHeaderEnd locates the first occurrence of the blank-line
// terminator "\r\n\r\n", returning the index of the first of those four
// bytes, or -1 if not yet present.
func indexHeaderEnd(buf []byte) int {
	for i := 0; i+3 < len(buf); i++ {
		if buf[i] == '\r' && buf[i+1] == '\n' && buf[i+2] == '\r' && buf[i+3] == '\n' {
			return i
		}
	}
	return -1
}

var errMalformedInterleavedHeader = malformedInterleavedHeaderErr{}

type malformedInterleavedHeaderErr struct{}

func (malformedInterleavedHeaderErr) Error() string { return "malformed interleaved frame header" }
