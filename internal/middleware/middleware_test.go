package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		subject := ""
		if claims := GetClaims(c); claims != nil {
			subject = claims.Subject
		}
		c.String(http.StatusOK, subject)
	})
	r.GET("/protected", handlers...)
	return r
}

func TestParseJWT(t *testing.T) {
	valid, err := GenerateJWT("user-1", "a@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(valid, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)

	expired, _ := GenerateJWT("user-1", "", testSecret, -time.Minute)
	noSubject, _ := GenerateJWT("", "", testSecret, time.Hour)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}).SignedString([]byte(testSecret))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, testSecret},
		{"missing subject", noSubject, testSecret},
		{"missing expiry", noExpiry, testSecret},
		{"other algorithm", hs512, testSecret},
		{"garbage", "not.a.token", testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJWT(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestJWTAuth(t *testing.T) {
	router := protectedRouter(JWTAuth(testSecret))
	token, err := GenerateJWT("user-42", "", testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, "user-42"},
		{"missing header", "", http.StatusUnauthorized, `"error":"unauthorized"`},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, "Missing or invalid Authorization header"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(2)
	router := protectedRouter(rl.RateLimit())

	get := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := get("10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, get("10.0.0.1:1234").Code)

	third := get("10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, third.Body.String(), "rate_limit_exceeded")

	assert.Equal(t, http.StatusOK, get("10.0.0.2:1234").Code, "other clients have their own bucket")
}

func TestRateLimitKeysByUser(t *testing.T) {
	rl := NewRateLimiter(1)
	router := protectedRouter(JWTAuth(testSecret), rl.RateLimit())

	call := func(userID, remoteAddr string) int {
		token, _ := GenerateJWT(userID, "", testSecret, time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.RemoteAddr = remoteAddr
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("alice", "10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, call("alice", "10.0.0.9:1"), "same user from another IP")
	assert.Equal(t, http.StatusOK, call("bob", "10.0.0.1:1"), "another user behind the same IP")
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
