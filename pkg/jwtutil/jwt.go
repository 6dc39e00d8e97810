package jwtutil

import (
	"time"

	"notes-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

// UserClaims represents the JWT claims identifying a principal and its
// tenant. The claim set is the only thing a bearer token carries; the
// user and tenant records are re-resolved on every request.
type UserClaims struct {
	UserID     uint   `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantID   uint   `json:"tenant_id"`
	TenantSlug string `json:"tenant_slug"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens. It is constructed once at
// startup from the JWT configuration; nothing in here reads ambient
// state.
type Codec struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewCodec builds a Codec from configuration.
func NewCodec(cfg *config.JWTConfig) *Codec {
	return &Codec{
		secret: []byte(cfg.SigningKey),
		expiry: time.Duration(cfg.ExpirationHours) * time.Hour,
		issuer: cfg.Issuer,
	}
}

// Issue creates a signed, time-boxed token for the given principal.
func (cd *Codec) Issue(userID uint, email, role string, tenantID uint, tenantSlug string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:     userID,
		Email:      email,
		Role:       role,
		TenantID:   tenantID,
		TenantSlug: tenantSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cd.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cd.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cd.secret)
}

// Verify validates and parses a token. Invalid signature, malformed
// input and expiry are all the same failure class; the caller must
// re-authenticate, there is nothing to retry.
func (cd *Codec) Verify(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return cd.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
