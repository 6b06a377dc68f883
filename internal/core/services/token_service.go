package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const accessSubject = "owner"

type TokenService struct {
	secretKey     []byte
	issuer        string
	tokenDuration time.Duration
}

func NewTokenService(secretKey string, issuer string, tokenDuration time.Duration) *TokenService {
	return &TokenService{
		secretKey:     []byte(secretKey),
		issuer:        issuer,
		tokenDuration: tokenDuration,
	}
}

func (s *TokenService) GenerateToken() (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": accessSubject,
		"exp": expires.Unix(),
		"iat": now.Unix(),
		"iss": s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token service: failed to sign token: %w", err)
	}

	return signedToken, expires, nil
}

func (s *TokenService) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid token claims")
	}

	if iss, ok := claims["iss"].(string); !ok || iss != s.issuer {
		return fmt.Errorf("invalid token issuer")
	}
	if sub, ok := claims["sub"].(string); !ok || sub != accessSubject {
		return fmt.Errorf("invalid token subject")
	}

	return nil
}
