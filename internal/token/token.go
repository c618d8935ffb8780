package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer          = "sleeptracker-api"
	minSecretLength = 32
)

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token expired")
)

type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed, time-limited bearer tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) (*Service, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("token: secret must be at least %d characters", minSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("token: expiry must be positive")
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// Issue produces a signed token embedding the user identifier.
func (s *Service) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("token: empty user ID")
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the embedded user ID.
// No side effects; tokens are stateless and never tracked server-side.
func (s *Service) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalid
	}

	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	if !t.Valid || claims.UserID == "" || claims.Issuer != issuer {
		return "", ErrInvalid
	}
	return claims.UserID, nil
}
