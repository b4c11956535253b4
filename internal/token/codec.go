// Package token signs and verifies the compact, expiring, tamper-evident
// tokens used by the auth core. Tokens are symmetric HS256; the three token
// kinds (access, refresh, verification) are signed under three distinct
// secrets and never validate across keyspaces.
package token

import (
	"errors"
	"fmt"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"

	"github.com/smallpress/blog-backend/internal/domain"
)

var signatureAlgorithms = []gojose.SignatureAlgorithm{gojose.HS256}

// Codec signs and decodes tokens. It holds no secrets; the caller supplies
// the keyspace per operation.
type Codec struct {
	now func() time.Time
}

// NewCodec constructs a codec on the system clock.
func NewCodec() *Codec {
	return &Codec{now: time.Now}
}

// WithClock substitutes the time source. Tests use this to step past expiry
// without sleeping.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Sign serializes the given claim sets into a signed compact token. A
// positive lifetime stamps an expiry of now + lifetime; zero means the token
// never expires.
func (c *Codec) Sign(secret []byte, lifetime time.Duration, claims ...any) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	builder := gojwt.Signed(signer)
	if lifetime > 0 {
		builder = builder.Claims(gojwt.Claims{Expiry: gojwt.NewNumericDate(c.now().Add(lifetime))})
	}
	for _, set := range claims {
		builder = builder.Claims(set)
	}

	raw, err := builder.Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}
	return raw, nil
}

// Decode verifies the signature under secret and unmarshals the payload into
// each dest. Failures map onto exactly two kinds: domain.ErrTokenInvalid for
// anything malformed, tampered, or signed under another secret, and
// domain.ErrTokenExpired for a valid signature past its expiry.
//
// allowExpired skips only the expiry check; tampered tokens are rejected
// regardless. Logout uses this so an expired session can still be revoked.
func (c *Codec) Decode(raw string, secret []byte, allowExpired bool, dests ...any) error {
	parsed, err := gojwt.ParseSigned(raw, signatureAlgorithms)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	var std gojwt.Claims
	out := append([]any{&std}, dests...)
	if err := parsed.Claims(secret, out...); err != nil {
		return domain.ErrTokenInvalid
	}

	if allowExpired {
		return nil
	}
	if err := std.ValidateWithLeeway(gojwt.Expected{Time: c.now()}, 0); err != nil {
		if errors.Is(err, gojwt.ErrExpired) {
			return domain.ErrTokenExpired
		}
		return domain.ErrTokenInvalid
	}
	return nil
}
