package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// Viewer is the authenticated caller of a request. It is not necessarily the
// viewpoint user of a ledger query.
type Viewer struct {
	Subject string
	Email   string
}

// Authenticated reports whether v identifies a signed-in caller.
func (v Viewer) Authenticated() bool {
	return v.Subject != "" && v.Email != ""
}

// Claims is the session token payload.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 session tokens.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses token and returns the viewer it identifies.
func (v *Verifier) Verify(token string) (Viewer, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Viewer{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	viewer := Viewer{Subject: claims.Subject, Email: claims.Email}
	if !viewer.Authenticated() {
		return Viewer{}, fmt.Errorf("%w: missing subject or email", ErrInvalidToken)
	}

	return viewer, nil
}

// Signer issues session tokens accepted by a Verifier with the same secret.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewSigner(secret, issuer string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

func (s *Signer) Sign(viewer Viewer) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: viewer.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   viewer.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return token, nil
}

type contextKey struct{}

// WithViewer returns a copy of ctx carrying viewer.
func WithViewer(ctx context.Context, viewer Viewer) context.Context {
	return context.WithValue(ctx, contextKey{}, viewer)
}

// FromContext returns the viewer stored by the middleware, if any.
func FromContext(ctx context.Context) (Viewer, bool) {
	viewer, ok := ctx.Value(contextKey{}).(Viewer)
	return viewer, ok
}
