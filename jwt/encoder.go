package jwt

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Encoder mints HS256 tokens carrying a user id as the sub claim. The
// production backend mints its own tokens; this one backs the fake
// backend and the dev tooling.
type Encoder struct {
	key []byte
}

func NewEncoder(key []byte) *Encoder {
	return &Encoder{
		key: key,
	}
}

func (e *Encoder) Encode(userID string) (string, error) {
	claims := jwt.StandardClaims{
		Subject:   userID,
		ExpiresAt: time.Now().AddDate(0, 2, 0).Unix(),
		Issuer:    "todonet",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(e.key)
}
