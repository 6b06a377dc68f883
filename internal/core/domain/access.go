package domain

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPassphraseTooShort = errors.New("passphrase must be at least 8 characters long")
	ErrAccessLockDisabled = errors.New("access lock is not configured")
)

// AccessLock guards the API of a tracker exposed beyond localhost. It holds
// only the bcrypt hash of the owner's passphrase.
type AccessLock struct {
	PassphraseHash string
}

func HashPassphrase(plain string) (string, error) {
	if utf8.RuneCountInString(plain) < 8 {
		return "", ErrPassphraseTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (l *AccessLock) Enabled() bool {
	return l != nil && l.PassphraseHash != ""
}

func (l *AccessLock) Check(plain string) error {
	if !l.Enabled() {
		return ErrAccessLockDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(l.PassphraseHash), []byte(plain)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
