package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalParseInterleavedFrameRoundTrip(t *testing.T) {
	f := InterleavedFrame{Channel: 0, Payload: []byte{1, 2, 3, 4}}
	buf := MarshalInterleavedFrame(f)

	channel, length, ok := ParseInterleavedFrameHeader(buf)
	require.True(t, ok)
	require.Equal(t, uint8(0), channel)
	require.Equal(t, 4, length)
	require.Equal(t, f.Payload, buf[InterleavedFrameHeaderLen:])
}

func TestParseInterleavedFrameHeaderTooShort(t *testing.T) {
	_, _, ok := ParseInterleavedFrameHeader([]byte{0x24, 0x00})
	require.False(t, ok)
}

func TestParseInterleavedFrameHeaderWrongMagic(t *testing.T) {
	_, _, ok := ParseInterleavedFrameHeader([]byte{0x00, 0x00, 0x00, 0x04})
	require.False(t, ok)
}
