package base

import (
	"strconv"
	"strings"
)

const protocolVersion = "RTSP/1.0"

// Request is a RTSP request.
type Request struct {
	Method Method
	URL    *URL
	Header Header
	Body   []byte
}

// Marshal serializes the request, including the request line, the header
// block and the body, setting Content-Length automatically.
func (req Request) Marshal() []byte {
	if req.Header == nil {
		req.Header = make(Header)
	}

	if len(req.Body) != 0 {
		req.Header.Set("Content-Length", strconv.Itoa(len(req.Body)))
	}

	urStr := "*"
	if req.URL != nil {
		urStr = req.URL.CloneWithoutCredentials().String()
	}

	var buf strings.Builder
	buf.WriteString(string(req.Method))
	buf.WriteByte(' ')
	buf.WriteString(urStr)
	buf.WriteByte(' ')
	buf.WriteString(protocolVersion)
	buf.WriteString("\r\n")
	buf.Write(req.Header.Marshal())
	buf.Write(req.Body)

	return []byte(buf.String())
}

// String implements fmt.Stringer.
func (req Request) String() string {
	return string(req.Marshal())
}

// ParseRequestLine parses a request line of the form
// "METHOD url RTSP/1.0", as used for recognizing a server-initiated
// request embedded in the input stream.
func ParseRequestLine(line string) (Method, string, bool) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return "", "", false
	}
	if !strings.HasPrefix(parts[2], "RTSP/") {
		return "", "", false
	}
	return Method(parts[0]), parts[1], true
}
