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

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newRouter(cfg JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuth(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	valid := jwt.MapClaims{
		"sub":  "user-1",
		"role": "authenticated",
		"aud":  "authenticated",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}

	cases := []struct {
		name   string
		header string
		query  string
		ws     bool
		want   int
	}{
		{"valid", "Bearer " + sign(t, valid, testSecret), "", false, http.StatusOK},
		{"missing", "", "", false, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + sign(t, valid, "other"), "", false, http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret), "", false, http.StatusUnauthorized},
		{"anon", "Bearer " + sign(t, jwt.MapClaims{"sub": "u", "role": "anon", "aud": "authenticated"}, testSecret), "", false, http.StatusUnauthorized},
		{"wrong audience", "Bearer " + sign(t, jwt.MapClaims{"sub": "u", "aud": "x"}, testSecret), "", false, http.StatusUnauthorized},
		{"websocket query token", "", sign(t, valid, testSecret), true, http.StatusOK},
		{"query token ignored on plain request", "", sign(t, valid, testSecret), false, http.StatusUnauthorized},
	}

	r := newRouter(JWTConfig{Secret: testSecret, Audience: "authenticated"})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := "/me"
			if tc.query != "" {
				target += "?access_token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.ws {
				req.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "user-1", w.Body.String())
			}
		})
	}
}

func TestJWTAuth_NoSecret(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(JWTConfig{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
