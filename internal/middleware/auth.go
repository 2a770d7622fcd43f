package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/shelf-social/pkg/response"
)

// ContextUserID 当前登录用户 id 在 gin.Context 中的 key
const ContextUserID = "userID"

// Auth 要求 Bearer token（HS256，sub 为用户 id），否则 401
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := userFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			response.Unauthorized(c, "unauthenticated")
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// OptionalAuth sets the user id when a valid token is present and never rejects the request.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := userFromHeader(c.GetHeader("Authorization"), secret); err == nil {
			c.Set(ContextUserID, userID)
		}
		c.Next()
	}
}

// UserID 返回当前用户 id；未登录时为空串
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func userFromHeader(header, secret string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", fmt.Errorf("missing bearer token")
	}
	token, err := gojwt.ParseWithClaims(parts[1], &gojwt.RegisteredClaims{}, func(token *gojwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*gojwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}

// IssueToken 签发 HS256 token（测试与本地调试用）
func IssueToken(secret, userID string, claims gojwt.RegisteredClaims) (string, error) {
	claims.Subject = userID
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
