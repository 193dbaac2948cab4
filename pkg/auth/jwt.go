package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("token ausente")
	ErrInvalidToken = errors.New("token inválido")
)

// Principal is the identity carried by a verified token.
type Principal struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Tipo  Tipo   `json:"tipo"`
}

type Claims struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Tipo  Tipo   `json:"tipo"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 bearer tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *JWTManager) TTL() time.Duration { return m.ttl }

// Issue signs p for ttl; a non-positive ttl falls back to the manager default.
func (m *JWTManager) Issue(p Principal, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}
	if p.ID <= 0 || !p.Tipo.Valid() {
		return "", ErrInvalidToken
	}

	now := m.now()
	claims := &Claims{
		ID:    p.ID,
		Email: p.Email,
		Tipo:  p.Tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify returns ErrMissingToken for an empty token and ErrInvalidToken for
// anything that fails signature, algorithm or expiry checks.
func (m *JWTManager) Verify(tokenString string) (Principal, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Principal{}, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return Principal{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Principal{}, ErrInvalidToken
	}
	return Principal{ID: claims.ID, Email: claims.Email, Tipo: claims.Tipo}, nil
}

// TokenFromHeader extracts the token from an "Authorization: Bearer" value.
func TokenFromHeader(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(parts[1]), nil
}
