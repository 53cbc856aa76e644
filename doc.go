// Package rtspclient implements the core of an RTSP 1.0 client (RFC 2326)
// targeting a single rtsp:// URL: the request/response state machine
// (CSeq matching, pipelining, transparent re-authentication), the
// optional HTTP-tunneling handshake for firewall traversal, the
// connection lifecycle, and RTSP message parsing including the
// interleaved-binary-data demultiplexer.
//
// SDP parsing and the MediaSession/MediaSubsession model live in
// pkg/sdpsession, and Digest/Basic authentication arithmetic lives in
// pkg/auth behind the Authenticator interface. Each Client runs its own
// dispatch-loop goroutine. Demultiplexed RTP/RTCP payloads are handed to
// per-subsession sinks; beyond tracking the last RTP sequence number and
// timestamp and optionally decoding RTCP for OnRTCPPacket, the core does
// not process media packets.
package rtspclient
