package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campfire/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	pkg.SetJWTSecret("test-secret")
	pkg.SetCookieSecure(false)
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/private", Auth(), func(c *gin.Context) {
		pkg.Respond(c, http.StatusOK, "ok", gin.H{"userId": UserID(c)})
	})
	r.GET("/open", OptionalAuth(), func(c *gin.Context) {
		pkg.Respond(c, http.StatusOK, "ok", gin.H{"userId": UserID(c)})
	})
	return r
}

func do(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidAccessCookie(t *testing.T) {
	access, err := pkg.NewAccessToken(42)
	require.NoError(t, err)

	w := do(newAuthRouter(), "/private", &http.Cookie{Name: pkg.AccessCookie, Value: access})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":42`)
}

func TestAuthRejectsWithoutCookies(t *testing.T) {
	w := do(newAuthRouter(), "/private")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), pkg.CodeNoToken)
}

func TestAuthRotatesAccessFromRefresh(t *testing.T) {
	refresh, err := pkg.NewRefreshToken(7)
	require.NoError(t, err)

	w := do(newAuthRouter(), "/private",
		&http.Cookie{Name: pkg.AccessCookie, Value: "stale"},
		&http.Cookie{Name: pkg.RefreshCookie, Value: refresh},
	)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)

	// 续签要重种 access cookie
	found := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == pkg.AccessCookie && ck.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "rotated access token should be set as cookie")
}

func TestOptionalAuthFallsBackToGuest(t *testing.T) {
	w := do(newAuthRouter(), "/open")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":0`)
}

func TestOptionalAuthRecognizesUser(t *testing.T) {
	access, err := pkg.NewAccessToken(3)
	require.NoError(t, err)

	w := do(newAuthRouter(), "/open", &http.Cookie{Name: pkg.AccessCookie, Value: access})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":3`)
}
