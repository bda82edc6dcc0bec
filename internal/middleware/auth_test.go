package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"tubely/internal/domain"
	"tubely/internal/middleware"
	"tubely/internal/service"
	"tubely/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(authSvc service.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AuthMiddleware(authSvc))
	r.GET("/test", func(c *gin.Context) {
		uid, err := middleware.GetUserID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": uid})
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	userID := uuid.New()
	claims := &service.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}

	mockAuth.On("ValidateToken", "valid-token").Return(claims, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	authRouter(mockAuth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, userID.String(), resp["user_id"])
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	authRouter(mockAuth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuth.AssertNotCalled(t, "ValidateToken", "")
}

func TestAuthMiddleware_NotBearer(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	authRouter(mockAuth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "bad-token").Return(nil, errors.New("token is expired"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer bad-token")
	authRouter(mockAuth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, false, resp["success"])
}

func TestAuthMiddleware_BadSubject(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	claims := &service.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "someone"}}
	mockAuth.On("ValidateToken", "odd-token").Return(claims, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer odd-token")
	authRouter(mockAuth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := middleware.GetUserID(c)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
