package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"invest_platform/internal/domain"
	"invest_platform/internal/repository"
	"invest_platform/internal/testutil"
	"invest_platform/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	id, ok := CurrentUserID(c)
	c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(secret), whoAmI)

	w := serve(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/me", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token inválido ou expirado")

	other, err := utils.GenerateJWT(5, "other-secret")
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/me", other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateJWT(5, secret)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":5,"ok":true}`, w.Body.String())
}

func TestAdminOnlyMiddleware(t *testing.T) {
	gdb := testutil.NewDB(t)
	store := repository.NewGormStore(gdb)
	user := testutil.CreateUser(t, gdb, "111", "p", decimal.Zero)
	admin := testutil.CreateUser(t, gdb, "999", "p", decimal.Zero)
	require.NoError(t, gdb.Model(&domain.User{}).Where("id = ?", admin.ID).Update("role", domain.RoleAdmin).Error)

	r := gin.New()
	r.GET("/admin", JWTAuthMiddleware(secret), AdminOnlyMiddleware(store), whoAmI)

	userToken, err := utils.GenerateJWT(user.ID, secret)
	require.NoError(t, err)
	w := serve(r, http.MethodGet, "/admin", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	ghostToken, err := utils.GenerateJWT(12345, secret)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/admin", ghostToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := utils.GenerateJWT(admin.ID, secret)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnlyWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminOnlyMiddleware(nil), whoAmI)
	w := serve(r, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCorsMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CorsMiddleware("https://app.example.com, https://admin.example.com"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
