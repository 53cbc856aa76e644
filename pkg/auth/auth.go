// Package auth implements the Authenticator capability the client core
// consumes: something that can turn a 401 challenge into an
// Authorization header for subsequent (method, url) pairs. The digest
// arithmetic itself is RFC 2069/2617 MD5.
package auth

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/GlobalInvacomGroupLimited/rtspclient/pkg/headers"
)

func md5Hex(in string) string {
	h := md5.New()
	h.Write([]byte(in))
	return hex.EncodeToString(h.Sum(nil))
}

// Method is the scheme of an authentication challenge.
type Method int

// Supported schemes. The zero Method is neither, and marks an
// authenticator that has not received a challenge yet.
const (
	MethodBasic Method = iota + 1
	MethodDigest
)

// Authenticator computes Authorization headers for a fixed set of
// credentials, updating its challenge state from WWW-Authenticate
// responses as the client core calls SetChallenge.
type Authenticator interface {
	// SetChallenge updates the scheme, realm and nonce from a WWW-Authenticate
	// header value. Returns an error if no supported scheme is offered.
	SetChallenge(wwwAuthenticate []string) error

	// Header computes an Authorization header value for the given
	// method and absolute URL, using the most recent challenge.
	Header(method string, rawURL string) (string, error)
}

type authenticator struct {
	user   string
	pass   string
	method Method
	realm  string
	nonce  string
}

// New creates an Authenticator for the given credentials. It has no
// challenge yet; SetChallenge must be called once after the first 401.
func New(user, pass string) Authenticator {
	return &authenticator{user: user, pass: pass}
}

func (a *authenticator) SetChallenge(wwwAuthenticate []string) error {
	for _, v := range wwwAuthenticate {
		if strings.HasPrefix(v, "Digest ") {
			h, err := headers.ReadAuth(v)
			if err != nil {
				return err
			}
			realm, ok := h.Values["realm"]
			if !ok {
				return fmt.Errorf("realm not provided in WWW-Authenticate")
			}
			nonce, ok := h.Values["nonce"]
			if !ok {
				return fmt.Errorf("nonce not provided in WWW-Authenticate")
			}
			a.method = MethodDigest
			a.realm = realm
			a.nonce = nonce
			return nil
		}
	}

	for _, v := range wwwAuthenticate {
		if strings.HasPrefix(v, "Basic ") {
			h, err := headers.ReadAuth(v)
			if err != nil {
				return err
			}
			realm, ok := h.Values["realm"]
			if !ok {
				return fmt.Errorf("realm not provided in WWW-Authenticate")
			}
			a.method = MethodBasic
			a.realm = realm
			return nil
		}
	}

	return fmt.Errorf("no supported authentication method in WWW-Authenticate")
}

func (a *authenticator) Header(method string, rawURL string) (string, error) {
	switch a.method {
	case MethodBasic:
		response := base64.StdEncoding.EncodeToString([]byte(a.user + ":" + a.pass))
		return "Basic " + response, nil

	case MethodDigest:
		response := md5Hex(md5Hex(a.user+":"+a.realm+":"+a.pass) + ":" +
			a.nonce + ":" + md5Hex(method+":"+rawURL))

		h := &headers.Auth{
			Prefix: "Digest",
			Values: map[string]string{
				"username": a.user,
				"realm":    a.realm,
				"nonce":    a.nonce,
				"uri":      rawURL,
				"response": response,
			},
		}
		return h.Write(), nil

	default:
		return "", fmt.Errorf("no challenge received yet")
	}
}
