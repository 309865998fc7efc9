// Package auth covers credentials: bcrypt password hashing and the signed
// bearer tokens returned by register and login.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"flatboard/internal/apperr"
	"flatboard/internal/model"
	"flatboard/internal/util"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = time.Hour

// TokenService issues and verifies tokens with a shared HMAC secret. The
// clock is injected so expiry is testable.
type TokenService struct {
	secret []byte
	clock  util.Clock
}

func NewTokenService(secret string, clock util.Clock) *TokenService {
	return &TokenService{secret: []byte(secret), clock: clock}
}

// Issue returns a signed token carrying the user's id and email.
func (s *TokenService) Issue(userID int64, email string) (string, error) {
	now := s.clock.NowUtc()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token and extracts the identity it was issued for.
// Expired, malformed and mis-signed tokens all come back as auth errors.
func (s *TokenService) Verify(tokenStr string) (model.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock.NowUtc))
	if err != nil || !token.Valid {
		return model.Identity{}, apperr.Auth("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, apperr.Auth("invalid token")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return model.Identity{}, apperr.Auth("invalid token")
	}
	email, _ := claims["email"].(string)

	return model.Identity{ID: int64(userIDFloat), Email: email}, nil
}

// ExtractToken pulls the bearer token out of the Authorization header.
func ExtractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}
