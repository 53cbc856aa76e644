package base

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

func stringsReverseIndex(s, substr string) int {
	for i := len(s) - len(substr); i >= 0; i-- {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// PathSplitQuery splits a path from a query.
func PathSplitQuery(pathAndQuery string) (string, string) {
	i := stringsReverseIndex(pathAndQuery, "?")
	if i >= 0 {
		return pathAndQuery[:i], pathAndQuery[i:]
	}
	return pathAndQuery, ""
}

// URL is a RTSP URL. It is basically a net/url.URL with the RTSP-specific
// default port and control-attribute handling added.
type URL struct {
	url.URL
}

// DefaultPort is the default RTSP port, used when a URL omits one.
const DefaultPort = 554

// ParseURL parses a RTSP URL of the form
// rtsp://[user[:pass]@]host[:port][/suffix].
func ParseURL(s string) (*URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	if u.Scheme != "rtsp" && u.Scheme != "rtsps" {
		return nil, fmt.Errorf("unsupported scheme '%s'", u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("missing host")
	}

	return &URL{URL: *u}, nil
}

// Hostname returns the URL's host, without port.
func (u *URL) Hostname() string {
	return u.URL.Hostname()
}

// Port returns the URL's port, defaulting to DefaultPort when unspecified.
func (u *URL) Port() int {
	p := u.URL.Port()
	if p == "" {
		return DefaultPort
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return DefaultPort
	}
	return n
}

// String implements fmt.Stringer.
func (u *URL) String() string {
	return u.URL.String()
}

// Clone returns a deep copy of u.
func (u *URL) Clone() *URL {
	nu := u.URL
	return &URL{URL: nu}
}

// CloneWithoutCredentials returns a copy of u with User stripped, suitable
// for placement in a request line.
func (u *URL) CloneWithoutCredentials() *URL {
	nu := u.Clone()
	nu.URL.User = nil
	return nu
}

// Credentials returns the username and password embedded in the URL, if any.
func (u *URL) Credentials() (string, string, bool) {
	ui := u.URL.User
	if ui == nil {
		return "", "", false
	}
	pass, _ := ui.Password()
	return ui.Username(), pass, true
}

// Path returns the URL path without the leading slash.
func (u *URL) Path() string {
	p := u.URL.Path
	if strings.HasPrefix(p, "/") {
		p = p[1:]
	}
	return p
}

// Scheme returns "rtsp" or "rtsps".
func (u *URL) Scheme() string {
	return u.URL.Scheme
}

// RTSPPathAndQuery returns the path and query, without the leading
// slash, suitable for use as the suffix of a HTTP-tunneled request line
// or a DESCRIBE/OPTIONS request URI built from this base URL.
func (u *URL) RTSPPathAndQuery() (string, bool) {
	p := u.URL.Path
	if strings.HasPrefix(p, "/") {
		p = p[1:]
	}
	if u.URL.RawQuery != "" {
		p += "?" + u.URL.RawQuery
	}
	return p, true
}

// AppendControlPath returns a new URL obtained by appending a subsession
// control path. An absolute control path (one with its own scheme) is
// returned unchanged, reparsed as a URL; otherwise it is joined with
// exactly one '/' separator, per RFC 2326 §C.1.1.
func (u *URL) AppendControlPath(control string) (*URL, error) {
	if control == "" || control == "*" {
		return u.Clone(), nil
	}

	if strings.Contains(control, "://") {
		nu, err := ParseURL(control)
		if err != nil {
			return nil, err
		}
		nu.setUser(u.URL.User)
		return nu, nil
	}

	base := u.String()
	if strings.HasSuffix(base, "/") {
		base = base[:len(base)-1]
	}
	if strings.HasPrefix(control, "/") {
		base += control
	} else {
		base += "/" + control
	}

	return ParseURL(base)
}

func (u *URL) setUser(ui *url.Userinfo) {
	u.URL.User = ui
}
