// jwt.go verifies bearer tokens issued by the auth provider. The API never
// issues tokens to clients; GenerateJWT exists for tests and local tooling.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

const claimsContextKey = "claims"

// JWTClaims are the claims the auth provider puts in a session token.
type JWTClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an HS256 token for userID.
func GenerateJWT(userID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWT validates and parses a token string. Only HS256 is accepted and a
// subject is required.
func ParseJWT(tokenString, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// JWTAuth returns middleware that requires a valid Bearer token and stores
// its claims in the context.
func JWTAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing or invalid Authorization header. Use 'Bearer <token>'",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		claims, err := ParseJWT(strings.TrimPrefix(authHeader, "Bearer "), jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// GetClaims returns the verified token claims, or nil for anonymous requests.
func GetClaims(c *gin.Context) *JWTClaims {
	val, exists := c.Get(claimsContextKey)
	if !exists {
		return nil
	}
	claims, _ := val.(*JWTClaims)
	return claims
}
