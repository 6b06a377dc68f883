package services

import (
	"time"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

// AuthService trades the owner's passphrase for a bearer token. With no
// passphrase configured the API is open and Login is refused.
type AuthService struct {
	lock   *domain.AccessLock
	tokens *TokenService
}

func NewAuthService(lock *domain.AccessLock, tokens *TokenService) *AuthService {
	return &AuthService{
		lock:   lock,
		tokens: tokens,
	}
}

func (s *AuthService) Enabled() bool {
	return s.lock.Enabled()
}

func (s *AuthService) Login(passphrase string) (string, time.Time, error) {
	if !s.lock.Enabled() {
		return "", time.Time{}, domain.ErrAccessLockDisabled
	}

	if err := s.lock.Check(passphrase); err != nil {
		return "", time.Time{}, err
	}

	return s.tokens.GenerateToken()
}

func (s *AuthService) Verify(token string) error {
	return s.tokens.ValidateToken(token)
}
