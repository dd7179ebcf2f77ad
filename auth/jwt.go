package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
)

// Prepare claim names
const (
	ClaimUserID    = "user_id"
	ClaimUserName  = "user_name"
	ClaimUserEmail = "user_email"
	ClaimRoles     = "roles"
	ClaimExp       = "exp"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type TokenIssuer struct {
	secret       []byte
	accessExpire time.Duration
	now          func() time.Time
}

func NewTokenIssuer(secret string, accessExpire time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:       []byte(secret),
		accessExpire: accessExpire,
		now:          time.Now,
	}
}

// Generate access token
func (i *TokenIssuer) GenerateAccessToken(user models.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		ClaimUserID:    user.ID.String(),
		ClaimUserEmail: user.Email,
		ClaimUserName:  user.Username,
		ClaimRoles:     user.RoleNames(),
		ClaimExp:       now.Add(i.accessExpire).Unix(),
		"iat":          now.Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse token → return claims
func (i *TokenIssuer) ParseToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse claims")
	}
	return claims, nil
}

// RolesFromClaims reads the roles claim, which decodes as []any.
func RolesFromClaims(claims jwt.MapClaims) []string {
	raw, ok := claims[ClaimRoles].([]any)
	if !ok {
		return nil
	}
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}
