package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const userIDContextKey = "userID"

// authMiddleware verifies a bearer token signed with the configured HMAC
// key and stores the subject claim as the authenticated user id. The
// middleware is only installed when a signing key is configured; without
// one, callers supply userID in the request.
func (m ApiHandler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		returnErrorJsonCode(fmt.Errorf("missing Authorization header"), c, 401)
		return
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(m.JwtSigningKey), nil
	})
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid token: %w", err), c, 401)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		returnErrorJsonCode(fmt.Errorf("invalid token claims"), c, 401)
		return
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		returnErrorJsonCode(fmt.Errorf("token missing subject"), c, 401)
		return
	}

	c.Set(userIDContextKey, sub)
	c.Next()
}
