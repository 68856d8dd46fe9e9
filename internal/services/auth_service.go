package services

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

type AuthService struct {
	Users *repos.UserRepo
}

// Login verifies the credentials and issues a bearer token.
func (s *AuthService) Login(username, password string) (string, *domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}
	token := uuid.NewString()
	if err := s.Users.CreateSession(token, u.ID); err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Logout revokes the token; revoking an unknown token is a no-op.
func (s *AuthService) Logout(token string) error {
	return s.Users.DeleteSession(token)
}

func (s *AuthService) ByToken(token string) (*domain.User, error) {
	return s.Users.SessionUser(token)
}
