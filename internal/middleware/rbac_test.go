package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campuskit/student-mgmt-api/internal/models"
)

func performRBAC(claims *models.JWTClaims, path string, allowed ...string) int {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/resource/:id", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	}, RBAC(allowed...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

func TestRBACAllowsListedRole(t *testing.T) {
	code := performRBAC(&models.JWTClaims{UserID: "a1", Role: models.RoleAdmin}, "/resource/s9", string(models.RoleAdmin))
	assert.Equal(t, http.StatusOK, code)
}

func TestRBACDeniesOtherRole(t *testing.T) {
	code := performRBAC(&models.JWTClaims{UserID: "s1", Role: models.RoleStudent}, "/resource/s9", string(models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRBACAllowsSelfOnMatchingID(t *testing.T) {
	code := performRBAC(&models.JWTClaims{UserID: "s1", Role: models.RoleStudent}, "/resource/s1", string(models.RoleAdmin), AllowSelf)
	assert.Equal(t, http.StatusOK, code)
}

func TestRBACDeniesSelfOnForeignID(t *testing.T) {
	code := performRBAC(&models.JWTClaims{UserID: "s1", Role: models.RoleStudent}, "/resource/s2", string(models.RoleAdmin), AllowSelf)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRBACRequiresClaims(t *testing.T) {
	code := performRBAC(nil, "/resource/s1", string(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, code)
}
