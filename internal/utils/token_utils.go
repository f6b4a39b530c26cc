package utils

import (
	"errors"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the JWT claims identifying an actor. The subject is the user id.
type AccessClaims struct {
	OrganizationID string `json:"org"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the actor the claims describe.
func (c *AccessClaims) Actor() domain.Actor {
	return domain.Actor{OrganizationID: c.OrganizationID, UserID: c.Subject, Role: c.Role}
}

// GenerateAccessToken signs an HS256 token for actor.
func GenerateAccessToken(actor domain.Actor, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		OrganizationID: actor.OrganizationID,
		Role:           actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ErrIncompleteClaims is returned for a validly signed token missing the org, role or subject.
var ErrIncompleteClaims = errors.New("token is missing required claims")

// ParseAccessToken parses a token string, validates its signature and standard claims,
// and checks that it names an organization, a role and a user.
func ParseAccessToken(tokenString string, secretKey string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" || claims.OrganizationID == "" || claims.Role == "" {
		return nil, ErrIncompleteClaims
	}
	return claims, nil
}
