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

const testSecret = "secreto-de-prueba"

func firmarToken(t *testing.T, rol string, secret string, exp time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		UserID:   "8d7f5f35-94a2-4f4e-9a35-111111111111",
		Username: "test",
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(exp)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func armarRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grupo := r.Group("/", JWTAuth(testSecret))
	if len(roles) > 0 {
		grupo.Use(RequireRole(roles...))
	}
	grupo.GET("/recurso", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func pedir(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthSinToken(t *testing.T) {
	w := pedir(armarRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthTokenValido(t *testing.T) {
	token := firmarToken(t, "cajero", testSecret, time.Hour)
	w := pedir(armarRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthTokenExpirado(t *testing.T) {
	token := firmarToken(t, "cajero", testSecret, -time.Minute)
	w := pedir(armarRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthFirmaIncorrecta(t *testing.T) {
	token := firmarToken(t, "cajero", "otro-secreto", time.Hour)
	w := pedir(armarRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolePermitido(t *testing.T) {
	token := firmarToken(t, "supervisor", testSecret, time.Hour)
	w := pedir(armarRouter("supervisor", "administrador"), token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleDenegado(t *testing.T) {
	token := firmarToken(t, "mozo", testSecret, time.Hour)
	w := pedir(armarRouter("supervisor", "administrador"), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
