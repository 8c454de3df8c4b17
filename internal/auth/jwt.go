package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when no positive lifetime is configured.
const DefaultTokenTTL = 30 * 24 * time.Hour

// ErrInvalidToken is the only verification failure. Expired, forged and
// malformed tokens are not distinguished.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims for authenticated requests.
type Claims struct {
	AccountID string `json:"aid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is what a verified token asserts about its bearer.
type Identity struct {
	AccountID string
	Role      Role
}

// Manager encapsulates JWT generation and validation. It is built once at
// startup and is read-only afterwards.
type Manager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewManager creates a new JWT manager.
func NewManager(secret, issuer string, expiry time.Duration) (*Manager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if expiry <= 0 {
		expiry = DefaultTokenTTL
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "tourism"
	}
	return &Manager{
		secret: []byte(trimmed),
		issuer: issuer,
		expiry: expiry,
		now:    time.Now,
	}, nil
}

// DefaultTTL returns the lifetime used when Issue is called without one.
func (m *Manager) DefaultTTL() time.Duration {
	return m.expiry
}

// Issue signs a token for accountID and role. A non-positive ttl falls back
// to the manager's default lifetime.
func (m *Manager) Issue(accountID string, role Role, ttl time.Duration) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, errors.New("jwt manager is nil")
	}
	if strings.TrimSpace(accountID) == "" {
		return "", time.Time{}, errors.New("account id must not be empty")
	}
	if !role.Valid() {
		return "", time.Time{}, errors.New("invalid role for token generation")
	}
	if ttl <= 0 {
		ttl = m.expiry
	}
	now := m.now().UTC()
	expiry := now.Add(ttl)

	claims := Claims{
		AccountID: accountID,
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// Verify validates the token and returns the identity it carries. Every
// failure is reported as ErrInvalidToken.
func (m *Manager) Verify(tokenString string) (*Identity, error) {
	if m == nil || strings.TrimSpace(tokenString) == "" {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	role, ok := ParseRole(claims.Role)
	if !ok || strings.TrimSpace(claims.AccountID) == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{AccountID: claims.AccountID, Role: role}, nil
}
