// Package auth issues and validates the session tokens of the single station operator.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/station/internal/domain/models"
)

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 12 * time.Hour

// Token is the bearer credential returned on login.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Credentials configures the operator account and token signing.
type Credentials struct {
	Username     string
	PasswordHash string
	Secret       string
	TTL          time.Duration
}

// Service validates the configured credentials and signs HS256 tokens.
type Service struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewService validates creds and builds the service.
func NewService(creds Credentials) (*Service, error) {
	if creds.Username == "" {
		return nil, errors.New("auth username must be provided")
	}
	if _, err := bcrypt.Cost([]byte(creds.PasswordHash)); err != nil {
		return nil, fmt.Errorf("auth password hash is not a bcrypt hash: %w", err)
	}
	if creds.Secret == "" {
		return nil, errors.New("auth token secret must be provided")
	}
	if creds.TTL <= 0 {
		creds.TTL = DefaultTTL
	}
	return &Service{
		username:     creds.Username,
		passwordHash: []byte(creds.PasswordHash),
		secret:       []byte(creds.Secret),
		ttl:          creds.TTL,
		now:          time.Now,
	}, nil
}

// HashPassword produces the bcrypt hash expected in configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks username and password and issues a token.
func (s *Service) Login(username, password string) (Token, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return Token{}, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   s.username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Token: signed, ExpiresAt: expiresAt.UTC()}, nil
}

// Validate parses a bearer token and returns its subject.
func (s *Service) Validate(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid token: %w", models.ErrUnauthorized)
	}
	if claims.Subject != s.username {
		return "", fmt.Errorf("unknown subject: %w", models.ErrUnauthorized)
	}
	return claims.Subject, nil
}
