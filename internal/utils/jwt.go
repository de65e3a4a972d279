package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// AccessToken represents a signed HS256 access token along with its expiry.
// Access tokens are short-lived, carry the subject id and role, and are
// presented in the Authorization header on protected requests.  They are
// never persisted; validity is signature plus expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long-lived signed token carrying only the
// subject id.  The exact token string is stored against the user record;
// a presented refresh token must match that stored value, which is what
// invalidates rotated-out and logged-out tokens before they expire.
type RefreshToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // UTC expiration time
}

// Claims holds the fields extracted from a verified token.
type Claims struct {
	UserID uint64 // subject identifier (sub claim)
	Role   string // role claim; empty on refresh tokens
}

// ErrInvalidToken is returned for any token that fails verification:
// malformed, expired, or signed with the wrong key or algorithm.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user.  The claims are
// sub (user id), role, exp and iat.
func NewAccessToken(secret string, userID uint64, role string, ttl time.Duration) (AccessToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 JWT carrying only the subject
// id.  Refresh tokens live longer than access tokens and are exchanged for
// new token pairs.
func NewRefreshToken(secret string, userID uint64, ttl time.Duration) (RefreshToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Token: signed, Exp: exp}, nil
}

// VerifyToken parses and validates a signed token, enforcing the HMAC
// signing method, and returns its claims.  Expired, malformed and
// wrongly-signed tokens all yield ErrInvalidToken.
func VerifyToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	return claimsFromMap(mc)
}

// DecodeSubjectUnverified extracts the subject id from a token WITHOUT
// verifying its signature or expiry.  Logout uses this so that an expired
// or tampered token can still identify the session to clear; the caller
// must pair the result with a stored-value equality check before mutating
// anything.
func DecodeSubjectUnverified(raw string) (uint64, bool) {
	parser := jwt.NewParser()
	tok, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return 0, false
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	c, err := claimsFromMap(mc)
	if err != nil || c.UserID == 0 {
		return 0, false
	}
	return c.UserID, true
}

// claimsFromMap pulls sub and role out of decoded map claims.  JSON numbers
// decode as float64.
func claimsFromMap(mc jwt.MapClaims) (Claims, error) {
	var c Claims
	sub, ok := mc["sub"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	c.UserID = uint64(sub)
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	return c, nil
}
