package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context key under which AuthRequired stores the verified caller id.
const IdentityKey = "userId"

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret"
	}
	return []byte(secret)
}

// AuthRequired verifies the Bearer token and injects the stable user id
// into the request context. The core only ever trusts this id; it never
// looks at the token again.
func AuthRequired(c *gin.Context) {
	userID, err := JWTDecoder(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(IdentityKey, userID)
	c.Next()
}

// JWTDecoder resolves the caller's user id: the verified Bearer token,
// or the guest session a previous anonymous join created. Guests never
// hold tokens, so the session cookie is their only identity.
func JWTDecoder(c *gin.Context) (string, error) {
	if id, ok := c.Get(IdentityKey); ok {
		if s, ok := id.(string); ok && s != "" {
			return s, nil
		}
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		if guestID, ok := sessions.Default(c).Get(GuestSessionKey).(string); ok && guestID != "" {
			return guestID, nil
		}
		return "", errors.New("missing Authorization header")
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header {
		return "", errors.New("malformed Authorization header")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// IssueToken signs a token for a user id. Used by the local
// signup/login fallback when no external identity provider is wired.
func IssueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}
