package services

import (
	"fmt"
	"time"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService verifies bearer credentials issued by the auth provider and
// extracts the stable auth identity they carry. GenerateToken exists for the
// login exchange and for tests.
type TokenService struct {
	secretKey []byte
	issuer    string
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		issuer:    "chatapp-backend",
	}
}

func (s *TokenService) GenerateToken(ident *domain.AuthIdentity) (string, error) {
	claims := jwt.MapClaims{
		"sub":         ident.ID,
		"email":       ident.Email,
		"given_name":  ident.FirstName,
		"family_name": ident.LastName,
		"picture":     ident.ProfileURL,
		"iat":         time.Now().Unix(),
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
		"iss":         s.issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken parses and validates the JWT string.
func (s *TokenService) ValidateToken(tokenStr string) (*domain.AuthIdentity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		// Ensure signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrAuthFailed
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrAuthFailed
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, domain.ErrAuthFailed
	}
	ident := &domain.AuthIdentity{ID: sub}
	if v, ok := claims["email"].(string); ok {
		ident.Email = v
	}
	if v, ok := claims["given_name"].(string); ok {
		ident.FirstName = v
	}
	if v, ok := claims["family_name"].(string); ok {
		ident.LastName = v
	}
	if v, ok := claims["picture"].(string); ok {
		ident.ProfileURL = v
	}
	return ident, nil
}
