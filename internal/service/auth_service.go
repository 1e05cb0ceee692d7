package service

import (
	"time"

	"github.com/RF-YVY/HustleNest/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// AuthService authenticates the single shop operator against the credentials
// from configuration and issues signed session tokens.
type AuthService interface {
	Login(username, password string) (string, error)
}

type authService struct {
	username     string
	passwordHash string
	secret       []byte
}

func NewAuthService(username, passwordHash string, secret []byte) AuthService {
	return &authService{username: username, passwordHash: passwordHash, secret: secret}
}

func (s *authService) Login(username, password string) (string, error) {
	if username != s.username ||
		bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) != nil {
		log.Warn().Str("username", username).Msg("failed login attempt")
		return "", apperr.Validation("invalid username or password")
	}

	claims := jwt.MapClaims{
		"sub": s.username,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Storage(err, "failed to sign session token")
	}
	return signed, nil
}
