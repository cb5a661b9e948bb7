package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, userID uuid.UUID, admin bool) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"admin": admin,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthRouter() (*gin.Engine, *uuid.UUID, *bool) {
	var gotUser uuid.UUID
	var gotAdmin bool
	router := gin.New()
	router.GET("/private", RequireAuth(testSecret), func(c *gin.Context) {
		gotUser = GetUserID(c)
		gotAdmin = IsAdmin(c)
		c.Status(http.StatusOK)
	})
	router.GET("/admin", RequireAuth(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/open", OptionalAuth(testSecret), func(c *gin.Context) {
		gotUser = GetUserID(c)
		c.Status(http.StatusOK)
	})
	return router, &gotUser, &gotAdmin
}

func TestRequireAuth_Cookie(t *testing.T) {
	router, gotUser, gotAdmin := newAuthRouter()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signToken(t, testSecret, userID, false)})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *gotUser)
	assert.False(t, *gotAdmin)
}

func TestRequireAuth_BearerFallback(t *testing.T) {
	router, gotUser, _ := newAuthRouter()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID, false))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *gotUser)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	router, _, _ := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please login to continue")
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	router, _, _ := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signToken(t, "other-secret", uuid.New(), false)})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	router, _, _ := newAuthRouter()

	claims := jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	router, _, _ := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signToken(t, testSecret, uuid.New(), true)})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_NonAdmin(t *testing.T) {
	router, _, _ := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signToken(t, testSecret, uuid.New(), false)})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin only")
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	router, gotUser, _ := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.Nil, *gotUser)
}

func TestOptionalAuth_Authenticated(t *testing.T) {
	router, gotUser, _ := newAuthRouter()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signToken(t, testSecret, userID, false)})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *gotUser)
}
