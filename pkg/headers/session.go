package headers

import (
	"fmt"
	"strconv"
	"strings"
)

// Session is a parsed Session header: an opaque id plus the optional
// session-timeout parameter a SETUP response may advertise.
type Session struct {
	ID      string
	Timeout *uint
}

// ParseSession parses a Session header of the form "<id>[;timeout=N]".
func ParseSession(v string) (*Session, error) {
	parts := strings.Split(v, ";")
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("invalid session header: %q", v)
	}

	s := &Session{ID: parts[0]}

	for _, part := range parts[1:] {
		part = strings.TrimLeft(part, " ")
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || kv[0] != "timeout" {
			continue
		}
		n, err := strconv.ParseUint(kv[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid session timeout: %q", v)
		}
		t := uint(n)
		s.Timeout = &t
	}

	return s, nil
}

// Write encodes a Session header for use in subsequent requests (timeout
// is a server-to-client-only parameter and is never echoed back).
func (s *Session) Write() string {
	return s.ID
}
