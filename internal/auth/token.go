// Package auth verifies bearer tokens issued by the identity provider.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"solarhub/internal/config"
	"solarhub/internal/domain"
)

const accessAudience = "access"

// Claims represents the JWT claims carried by an access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID       `json:"uid"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"role"`
}

// TokenValidator validates access tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// HMACValidator validates HS256 tokens signed with a shared secret.
type HMACValidator struct {
	secret []byte
	issuer string
}

// NewHMACValidator creates a validator from the JWT config. An empty issuer
// accepts any issuer.
func NewHMACValidator(cfg config.JWTConfig) *HMACValidator {
	return &HMACValidator{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

func (v *HMACValidator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithAudience(accessAudience), jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w: %w", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("token has no user id: %w", domain.ErrUnauthorized)
	}
	switch claims.Role {
	case domain.RoleClient, domain.RoleAdmin, domain.RoleCompany:
	default:
		return nil, fmt.Errorf("token role %q: %w", claims.Role, domain.ErrUnauthorized)
	}
	return claims, nil
}

// Sign issues an access token for userID. It is used by tests and local
// tooling; production tokens come from the identity provider.
func (v *HMACValidator) Sign(userID uuid.UUID, email string, role domain.UserRole, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{accessAudience},
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}
