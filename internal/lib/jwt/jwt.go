package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewAdminToken issues the token the admin middleware checks after a
// successful gate login.
func NewAdminToken(username, secret string, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = username
	claims["admin"] = true
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()

	return token.SignedString([]byte(secret))
}
