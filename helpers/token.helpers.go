package helpers

import (
	Errors "errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// Token expiry windows by purpose.
const (
	SessionTokenDuration = time.Hour * 24 * 14
	LinkTokenDuration    = time.Hour * 24
	ShortTokenDuration   = time.Hour
)

// ErrInvalidToken is returned for any token that fails verification,
// including expired and tampered tokens.
var ErrInvalidToken = Errors.New("token is not valid")

// TokenClaims is the identity carried by every signed token.
type TokenClaims struct {
	MemberID int
	Email    string
}

// SignToken signs a bearer token carrying a member identity.
func SignToken(secret string, claims TokenClaims, expiry time.Duration) (string, error) {
	user := jwt.MapClaims{
		"memberid": claims.MemberID,
		"email":    claims.Email,
		"exp":      time.Now().Add(expiry).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, user)
	return jt.SignedString([]byte(secret))
}

// ParseToken verifies a bearer token and extracts the member identity.
// Verification failure never passes through silently.
func ParseToken(secret string, tokenString string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, ErrInvalidToken
	}

	user, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	memberID, ok := user["memberid"].(float64)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	email, ok := user["email"].(string)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}

	return TokenClaims{MemberID: int(memberID), Email: email}, nil
}
