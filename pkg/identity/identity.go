package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Issuer is the iss claim of tokens minted by Issue
const Issuer = "idm"

// ErrInvalidToken is returned when a token fails validation
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims of an admin bearer token
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Identity represents the authenticated identity for a request.
type Identity struct {
	// Token claims
	Login     string
	Roles     []string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP
}

// Anonymous is used for requests that don't require a token
func Anonymous() *Identity {
	return &Identity{Login: "anonymous"}
}

// Issue signs a token for subject carrying roles, valid for ttl
func Issue(secret []byte, subject string, roles []string, ttl time.Duration) (string, time.Time, error) {
	if len(secret) == 0 {
		return "", time.Time{}, errors.New("token secret is not configured")
	}

	now := time.Now().UTC()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			Issuer:    Issuer,
			Subject:   subject,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Parse validates an HS256 token and returns the identity it carries
func Parse(secret []byte, tokenStr string) (*Identity, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: token secret is not configured", ErrInvalidToken)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	id := &Identity{
		Login:   claims.Subject,
		Roles:   claims.Roles,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// HasRole reports whether the identity carries the named role
func (i *Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// WithRemoteIP sets the client IP address.
func (i *Identity) WithRemoteIP(ip string) *Identity {
	i.RemoteIP = net.ParseIP(ip)
	return i
}

// ClientIP returns the client IP as a string, or "" if unknown
func (i *Identity) ClientIP() string {
	if i.RemoteIP == nil {
		return ""
	}
	return i.RemoteIP.String()
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}

// FromContext returns the identity in ctx, or Anonymous if none is set
func FromContext(ctx context.Context) *Identity {
	if id, ok := Get(ctx); ok && id != nil {
		return id
	}
	return Anonymous()
}
