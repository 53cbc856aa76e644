package base

import (
	"fmt"
	"strconv"
	"strings"
)

// Response is a parsed RTSP response.
type Response struct {
	StatusCode    StatusCode
	StatusMessage string
	Header        Header
	Body          []byte
}

// Marshal serializes the response, including the status line, the
// header block and the body, setting Content-Length automatically.
// Used by the client core only to answer a server-initiated request
// with a minimal 501 Not Implemented.
func (r Response) Marshal() []byte {
	if r.Header == nil {
		r.Header = make(Header)
	}
	if len(r.Body) != 0 {
		r.Header.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}

	reason := r.StatusMessage
	if reason == "" {
		reason = StatusMessages[r.StatusCode]
	}

	var buf strings.Builder
	buf.WriteString("RTSP/1.0 ")
	buf.WriteString(strconv.Itoa(int(r.StatusCode)))
	buf.WriteByte(' ')
	buf.WriteString(reason)
	buf.WriteString("\r\n")
	buf.Write(r.Header.Marshal())
	buf.Write(r.Body)

	return []byte(buf.String())
}

// ParseStatusLine parses a status line of the form "RTSP/1.0 200 OK" or,
// during the HTTP-tunneling handshake, "HTTP/1.x 200 OK".
func ParseStatusLine(line string) (proto string, code StatusCode, reason string, err error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return "", 0, "", fmt.Errorf("malformed status line: %q", line)
	}

	proto = parts[0]
	if !strings.HasPrefix(proto, "RTSP/") && !strings.HasPrefix(proto, "HTTP/") {
		return "", 0, "", fmt.Errorf("malformed status line: %q", line)
	}

	n, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return "", 0, "", fmt.Errorf("malformed status code: %q", line)
	}

	if len(parts) == 3 {
		reason = parts[2]
	}

	return proto, StatusCode(n), reason, nil
}
