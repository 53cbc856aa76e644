package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthenticatorDigest(t *testing.T) {
	a := New("user", "pass")
	err := a.SetChallenge([]string{`Digest realm="example", nonce="abc123"`})
	require.NoError(t, err)

	hdr, err := a.Header("DESCRIBE", "rtsp://example.com/stream")
	require.NoError(t, err)
	require.Contains(t, hdr, "Digest ")
	require.Contains(t, hdr, `username="user"`)
	require.Contains(t, hdr, `realm="example"`)
	require.Contains(t, hdr, `nonce="abc123"`)
	require.Contains(t, hdr, `uri="rtsp://example.com/stream"`)
}

func TestAuthenticatorBasic(t *testing.T) {
	a := New("user", "pass")
	err := a.SetChallenge([]string{`Basic realm="example"`})
	require.NoError(t, err)

	hdr, err := a.Header("DESCRIBE", "rtsp://example.com/stream")
	require.NoError(t, err)
	require.Equal(t, "Basic dXNlcjpwYXNz", hdr)
}

func TestAuthenticatorPrefersDigest(t *testing.T) {
	a := New("user", "pass")
	err := a.SetChallenge([]string{
		`Basic realm="example"`,
		`Digest realm="example", nonce="abc123"`,
	})
	require.NoError(t, err)

	hdr, err := a.Header("DESCRIBE", "rtsp://example.com/stream")
	require.NoError(t, err)
	require.Contains(t, hdr, "Digest ")
}

func TestAuthenticatorNoChallengeYet(t *testing.T) {
	a := New("user", "pass")
	_, err := a.Header("DESCRIBE", "rtsp://example.com/stream")
	require.Error(t, err)
}

func TestAuthenticatorRejectsUnsupportedScheme(t *testing.T) {
	a := New("user", "pass")
	err := a.SetChallenge([]string{`NTLM realm="example"`})
	require.Error(t, err)
}
