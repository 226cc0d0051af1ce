package jwtgate

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jwtgate/jwtgate/internal"
)

// Claims is the signed-token payload. The wire shape nests the user id
// and, on refresh tokens only, the per-user secret under data.user, with
// the registered iss/iat/nbf/exp/jti claims alongside.
type Claims struct {
	Data ClaimsData `json:"data"`
	jwt.RegisteredClaims
}

// ClaimsData is the data envelope of the payload.
type ClaimsData struct {
	User ClaimsUser `json:"user"`
}

// ClaimsUser carries the token subject. UserSecret is present only on
// refresh tokens; its presence is what makes a token revocable.
type ClaimsUser struct {
	ID         int64  `json:"id"`
	UserSecret string `json:"user_secret,omitempty"`
}

func newClaims(issuer string, userID int64, issuedAt, notBefore, expiresAt time.Time) *Claims {
	return &Claims{
		Data: ClaimsData{
			User: ClaimsUser{ID: userID},
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(notBefore),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        internal.NewTokenID(),
		},
	}
}

// UserID returns the token subject's user id, zero when absent.
func (c *Claims) UserID() int64 {
	if c == nil {
		return 0
	}
	return c.Data.User.ID
}

// HasUserSecret reports whether the claims carry the refresh-token secret.
func (c *Claims) HasUserSecret() bool {
	return c != nil && c.Data.User.UserSecret != ""
}

// ClaimsCodec encodes and decodes the signed token payload. It is pure:
// no I/O, no knowledge of issuers or user secrets. Signing is HS256 only;
// the clock-skew leeway is applied on the verifying side, never when
// signing.
type ClaimsCodec struct {
	leeway   time.Duration
	timeFunc func() time.Time
}

// NewClaimsCodec builds a codec with the given verification leeway. now
// may be nil, in which case time.Now is used; tests inject a fixed clock.
func NewClaimsCodec(leeway time.Duration, now func() time.Time) *ClaimsCodec {
	if now == nil {
		now = time.Now
	}
	return &ClaimsCodec{
		leeway:   leeway,
		timeFunc: now,
	}
}

// Encode signs the claims with the given key and returns the compact
// three-part token string. Encoding is deterministic for a fixed claims
// value and key.
func (c *ClaimsCodec) Encode(claims *Claims, key []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrNoSigningKey
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return signed, nil
}

// Decode verifies the MAC and the temporal claims (exp, nbf, within
// leeway) and returns the decoded claims. It does not check the issuer or
// any business-level validity; that is the engine's job. All failures
// wrap ErrTokenInvalid.
func (c *ClaimsCodec) Decode(tokenString string, key []byte) (*Claims, error) {
	if len(key) == 0 {
		return nil, ErrNoSigningKey
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(c.timeFunc),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, errors.New("claims rejected"))
	}

	return claims, nil
}
