package base

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	headerMaxEntryCount = 255
)

func headerKeyNormalize(in string) string {
	switch strings.ToLower(in) {
	case "rtp-info":
		return "RTP-Info"

	case "www-authenticate":
		return "WWW-Authenticate"

	case "cseq":
		return "CSeq"

	case "com.ses.streamid":
		return "com.ses.streamID"
	}
	return http.CanonicalHeaderKey(in)
}

// HeaderValue is a header value.
type HeaderValue []string

// Header is the set of header fields of a Request or Response.
type Header map[string]HeaderValue

// Get returns the first value associated with a (case-insensitive) key.
func (h Header) Get(key string) (string, bool) {
	v, ok := h[headerKeyNormalize(key)]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Set replaces the values associated with key.
func (h Header) Set(key string, value string) {
	h[headerKeyNormalize(key)] = HeaderValue{value}
}

// ParseHeaderBlock parses the header section of a RTSP message, not
// including the terminating blank line. Each entry of in is one
// "Key: value" line with its trailing \r\n already stripped.
func ParseHeaderBlock(lines []string) (Header, error) {
	h := make(Header)

	for _, line := range lines {
		if line == "" {
			continue
		}

		if len(h) >= headerMaxEntryCount {
			return nil, fmt.Errorf("headers count exceeds %d", headerMaxEntryCount)
		}

		i := strings.IndexByte(line, ':')
		if i < 0 {
			return nil, fmt.Errorf("invalid header line: %q", line)
		}

		key := headerKeyNormalize(line[:i])
		val := strings.TrimLeft(line[i+1:], " ")

		h[key] = append(h[key], val)
	}

	return h, nil
}

// Marshal serializes the header block, including the terminating blank
// line, in deterministic (sorted) key order.
func (h Header) Marshal() []byte {
	var keys []string
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for _, key := range keys {
		for _, val := range h[key] {
			buf.WriteString(key)
			buf.WriteString(": ")
			buf.WriteString(val)
			buf.WriteString("\r\n")
		}
	}
	buf.WriteString("\r\n")

	return []byte(buf.String())
}
