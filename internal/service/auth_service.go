package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/fairyhunter13/storefront-api/internal/auth"
	"github.com/fairyhunter13/storefront-api/internal/model"
)

// TokenIssuerInterface defines how admin sessions are minted.
type TokenIssuerInterface interface {
	Issue(subject string, role auth.Role) (string, time.Time, error)
}

// AdminCredential is the single configured back-office login.
type AdminCredential struct {
	Username     string
	PasswordHash string
}

// AuthService exchanges the admin credential for a session token.
type AuthService struct {
	cred   AdminCredential
	tokens TokenIssuerInterface
}

// NewAuthService creates a new AuthService.
func NewAuthService(cred AdminCredential, tokens TokenIssuerInterface) *AuthService {
	return &AuthService{cred: cred, tokens: tokens}
}

// Login checks the credential and issues an admin token.
// A wrong username and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cred.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.cred.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		log.Warn().Str("username", req.Username).Msg("admin login rejected")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(s.cred.Username, auth.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	log.Info().Str("username", req.Username).Time("expires_at", expiresAt).Msg("admin logged in")
	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}
