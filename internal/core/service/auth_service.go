package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/commerce-system/internal/core/domain"
	"github.com/99minutos/commerce-system/internal/core/ports"
)

// AuthService implements the password grant: it loads the principal by
// username, checks the password and signs a token.
type AuthService struct {
	principals ports.PrincipalLoader
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewAuthService(principals ports.PrincipalLoader, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{principals: principals, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	principal, err := s.principals.LoadByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(principal.CredentialHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(principal)
	if err != nil {
		return "", nil, err
	}
	return token, principal, nil
}

func (s *AuthService) generateToken(p *domain.Principal) (string, error) {
	claims := jwt.MapClaims{
		"username": p.Username,
		"roles":    p.Roles.Strings(),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
