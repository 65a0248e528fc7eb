package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "test")

	tok, exp, err := m.GenerateAccessToken("jdubois")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "jdubois", claims.Login)
	assert.Equal(t, "test", claims.Issuer)
	assert.Same(t, m, DefaultJWT())
}

func TestJWTRejectsForeignAndExpiredTokens(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "test")
	other := NewJWTManager("other-secret", time.Hour, "test")

	tok, _, err := other.GenerateAccessToken("jdubois")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(tok)
	assert.Error(t, err)

	expired := NewJWTManager("secret", -time.Minute, "test")
	tok, _, err = expired.GenerateAccessToken("jdubois")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(tok)
	assert.Error(t, err)

	_, err = m.ParseAccessToken("not-a-token")
	assert.Error(t, err)
}
