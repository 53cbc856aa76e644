package base

import "encoding/binary"

// InterleavedFrameMagic is the first byte of a $-framed interleaved
// RTP/RTCP packet carried in-band on the RTSP TCP connection.
const InterleavedFrameMagic = 0x24

// InterleavedFrameHeaderLen is the size of the 4-byte frame header:
// magic byte, channel id, 2-byte big-endian payload length.
const InterleavedFrameHeaderLen = 4

// InterleavedFrame is a single demultiplexed RTP/RTCP packet.
type InterleavedFrame struct {
	Channel uint8
	Payload []byte
}

// ParseInterleavedFrameHeader parses the 4-byte header of an interleaved
// frame. ok is false if buf is shorter than InterleavedFrameHeaderLen or
// does not start with the magic byte.
func ParseInterleavedFrameHeader(buf []byte) (channel uint8, length int, ok bool) {
	if len(buf) < InterleavedFrameHeaderLen || buf[0] != InterleavedFrameMagic {
		return 0, 0, false
	}
	return buf[1], int(binary.BigEndian.Uint16(buf[2:4])), true
}

// MarshalInterleavedFrame encodes f for transmission.
func MarshalInterleavedFrame(f InterleavedFrame) []byte {
	buf := make([]byte, InterleavedFrameHeaderLen+len(f.Payload))
	buf[0] = InterleavedFrameMagic
	buf[1] = f.Channel
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(f.Payload)))
	copy(buf[4:], f.Payload)
	return buf
}
