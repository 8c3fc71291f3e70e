package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"courtside/internal/domain"
)

// Claims carries the standard registered claims plus the signed-in
// identity, so flows that run before a profile record exists (profile
// completion) still know who the user is.
type Claims struct {
	jwt.RegisteredClaims
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

func generateToken(ident *domain.Identity, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UID:   ident.UID,
		Email: ident.Email,
		Name:  ident.DisplayName,
	})
	return token.SignedString(secret)
}

func identityFromToken(tokenString string, secret []byte) (*domain.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UID == "" {
		return nil, ErrInvalidToken
	}
	return &domain.Identity{
		UID:         claims.UID,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}
