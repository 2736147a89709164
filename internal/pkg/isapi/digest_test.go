package isapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChallenge(t *testing.T) {
	header := `Digest realm="DS-K1T343MFWX", nonce="4e6f6e63652c20706c65617365", ` +
		`opaque="5f5f6f7061717565", qop="auth", algorithm=MD5`

	c, err := parseChallenge(header)
	require.NoError(t, err)
	assert.Equal(t, "DS-K1T343MFWX", c.Realm)
	assert.Equal(t, "4e6f6e63652c20706c65617365", c.Nonce)
	assert.Equal(t, "5f5f6f7061717565", c.Opaque)
	assert.Equal(t, "auth", c.Qop)
	assert.Equal(t, "MD5", c.Algorithm)
}

func TestParseChallengeQuotedComma(t *testing.T) {
	// A comma inside a quoted realm must not split the parameter.
	header := `Digest realm="door, main", nonce="abc", qop="auth"`

	c, err := parseChallenge(header)
	require.NoError(t, err)
	assert.Equal(t, "door, main", c.Realm)
}

func TestParseChallengeRejectsBasic(t *testing.T) {
	_, err := parseChallenge(`Basic realm="device"`)
	assert.Error(t, err)
}

func TestParseChallengeRequiresNonce(t *testing.T) {
	_, err := parseChallenge(`Digest realm="device", qop="auth"`)
	assert.Error(t, err)
}

func TestAuthorizeQopAuth(t *testing.T) {
	c := challenge{Realm: "device", Nonce: "abc123", Qop: "auth", Algorithm: "MD5"}

	header := c.authorize("admin", "secret", "GET", "/ISAPI/System/deviceInfo")

	assert.True(t, strings.HasPrefix(header, "Digest "))
	assert.Contains(t, header, `username="admin"`)
	assert.Contains(t, header, `realm="device"`)
	assert.Contains(t, header, `uri="/ISAPI/System/deviceInfo"`)
	assert.Contains(t, header, `qop=auth`)
	assert.Contains(t, header, `nc=00000001`)
	assert.Contains(t, header, "cnonce=")
	assert.NotContains(t, header, "secret")
}

func TestAuthorizeLegacyNoQop(t *testing.T) {
	c := challenge{Realm: "device", Nonce: "abc123"}

	header := c.authorize("admin", "secret", "GET", "/ISAPI/System/deviceInfo")

	// RFC 2069 compatibility: no qop means no nc/cnonce and the short
	// response formula.
	assert.NotContains(t, header, "qop=")
	assert.NotContains(t, header, "nc=")
	want := md5Hex(md5Hex("admin:device:secret") + ":abc123:" + md5Hex("GET:/ISAPI/System/deviceInfo"))
	assert.Contains(t, header, `response="`+want+`"`)
}
