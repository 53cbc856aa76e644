// Package headers parses and serializes the RTSP header values the client
// core needs to read or write: WWW-Authenticate/Authorization, Transport,
// Session, Range and RTP-Info. Scale is a plain number and is parsed by
// the client core itself.
package headers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Auth is a WWW-Authenticate or Authorization header value.
type Auth struct {
	Prefix string
	Values map[string]string
}

var reAuthKeyValue = regexp.MustCompile(`^([a-zA-Z0-9_-]+)=("(.*?)"|([a-zA-Z0-9]+))(, *|$)`)

// ReadAuth parses a WWW-Authenticate or Authorization header.
func ReadAuth(in string) (*Auth, error) {
	a := &Auth{Values: make(map[string]string)}

	i := strings.IndexByte(in, ' ')
	if i < 0 {
		return nil, fmt.Errorf("invalid auth header: %q", in)
	}
	a.Prefix, in = in[:i], in[i+1:]

	for len(in) > 0 {
		m := reAuthKeyValue.FindStringSubmatch(in)
		if m == nil {
			return nil, fmt.Errorf("unable to parse key-value in auth header: %q", in)
		}
		in = in[len(m[0]):]

		val := strings.TrimPrefix(m[2], "\"")
		val = strings.TrimSuffix(val, "\"")
		a.Values[m[1]] = val
	}

	return a, nil
}

// Write encodes the header, putting realm first since some servers are
// picky about Digest parameter ordering.
func (a *Auth) Write() string {
	var keys []string
	for key := range a.Values {
		if key != "realm" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if _, ok := a.Values["realm"]; ok {
		keys = append([]string{"realm"}, keys...)
	}

	var parts []string
	for _, key := range keys {
		parts = append(parts, key+"=\""+a.Values[key]+"\"")
	}

	return a.Prefix + " " + strings.Join(parts, ", ")
}
