package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/token"
)

var (
	accessSecret = []byte("access-secret-for-tests-0123456789")
	otherSecret  = []byte("another-secret-for-tests-0123456789")
)

func TestSignAndDecode(t *testing.T) {
	codec := token.NewCodec()

	raw, err := codec.Sign(accessSecret, time.Hour, token.NewAccessClaims(42, true))
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	var claims token.AccessClaims
	require.NoError(t, codec.Decode(raw, accessSecret, false, &claims))
	require.Equal(t, "42", claims.Subject)
	require.True(t, claims.IsSuperuser)

	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	codec := token.NewCodec()

	raw, err := codec.Sign(accessSecret, time.Hour, token.NewRefreshClaims(7))
	require.NoError(t, err)

	var claims token.RefreshClaims
	err = codec.Decode(raw, otherSecret, false, &claims)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	// Expiry does not matter for a token from another keyspace.
	err = codec.Decode(raw, otherSecret, true, &claims)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec := token.NewCodec()

	var claims token.AccessClaims
	require.ErrorIs(t, codec.Decode("not a token", accessSecret, false, &claims), domain.ErrTokenInvalid)
	require.ErrorIs(t, codec.Decode("", accessSecret, false, &claims), domain.ErrTokenInvalid)
}

func TestDecodeExpiry(t *testing.T) {
	now := time.Now()
	codec := token.NewCodec().WithClock(func() time.Time { return now })

	raw, err := codec.Sign(accessSecret, time.Minute, token.NewAccessClaims(42, false))
	require.NoError(t, err)

	var claims token.AccessClaims
	require.NoError(t, codec.Decode(raw, accessSecret, false, &claims))

	now = now.Add(2 * time.Minute)
	err = codec.Decode(raw, accessSecret, false, &claims)
	require.ErrorIs(t, err, domain.ErrTokenExpired)

	// allowExpired skips only the expiry check.
	require.NoError(t, codec.Decode(raw, accessSecret, true, &claims))
	require.Equal(t, "42", claims.Subject)
}

func TestSignWithoutLifetimeNeverExpires(t *testing.T) {
	now := time.Now()
	codec := token.NewCodec().WithClock(func() time.Time { return now })

	raw, err := codec.Sign(accessSecret, 0, token.NewRefreshClaims(1))
	require.NoError(t, err)

	now = now.Add(1000 * time.Hour)
	var claims token.RefreshClaims
	require.NoError(t, codec.Decode(raw, accessSecret, false, &claims))
}

func TestUserIDRejectsNonNumericSubject(t *testing.T) {
	claims := token.AccessClaims{Subject: "not-a-number"}
	_, err := claims.UserID()
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}
