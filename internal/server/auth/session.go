// Package auth holds the password digest and the session cookie codec.
package auth

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/auditoria/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// SessionMode selects how the username is carried in the session cookie.
type SessionMode string

const (
	// SessionPlain stores the username verbatim and trusts it on read.
	SessionPlain SessionMode = "plain"
	// SessionSigned stores an HS256 token carrying the username.
	SessionSigned SessionMode = "signed"
)

// ParseSessionMode accepts "plain" or "signed"; empty means plain.
func ParseSessionMode(s string) (SessionMode, error) {
	switch SessionMode(s) {
	case "", SessionPlain:
		return SessionPlain, nil
	case SessionSigned:
		return SessionSigned, nil
	default:
		return "", fmt.Errorf("unknown session mode %q", s)
	}
}

// Claims is the signed-mode token payload.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"usuario"`
}

// SessionCodec turns a username into a cookie value and back.
type SessionCodec interface {
	Encode(username string) (string, error)
	Decode(value string) (string, error)
}

// NewSessionCodec builds the codec for mode. Signed mode requires a secret.
func NewSessionCodec(mode SessionMode, secret []byte, ttl time.Duration) (SessionCodec, error) {
	switch mode {
	case SessionPlain, "":
		return PlainCodec{}, nil
	case SessionSigned:
		if len(secret) == 0 {
			return nil, errors.New("signed session mode requires a secret key")
		}
		return &SignedCodec{secret: secret, ttl: ttl, now: time.Now}, nil
	default:
		return nil, fmt.Errorf("unknown session mode %q", mode)
	}
}

// PlainCodec keeps the username as the cookie value, query-escaped so that
// bytes a cookie cannot carry survive the round trip. ASCII names made of
// letters, digits and "-_." are stored unchanged.
type PlainCodec struct{}

func (PlainCodec) Encode(username string) (string, error) {
	if username == "" {
		return "", common.ErrInvalidToken
	}
	return url.QueryEscape(username), nil
}

func (PlainCodec) Decode(value string) (string, error) {
	if value == "" {
		return "", common.ErrInvalidToken
	}
	username, err := url.QueryUnescape(value)
	if err != nil || username == "" {
		return "", common.ErrInvalidToken
	}
	return username, nil
}

type SignedCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (c *SignedCodec) Encode(username string) (string, error) {
	if username == "" {
		return "", common.ErrInvalidToken
	}

	claims := Claims{Username: username}
	issued := c.now()
	claims.IssuedAt = jwt.NewNumericDate(issued)
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issued.Add(c.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *SignedCodec) Decode(value string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Username == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}
