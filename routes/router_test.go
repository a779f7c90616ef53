package routes

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouterEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GIN_MODE", "test")
	t.Setenv("GIN_PATH", filepath.Join(t.TempDir(), "gin.log"))
}

func TestUploadRoutesArePublic(t *testing.T) {
	testRouterEnv(t)
	r := SetupRouter(nil)

	// No Authorization header: the request must reach the handler and fail
	// on the missing multipart field, not on authentication.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/upload/file", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/upload/files", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	testRouterEnv(t)
	r := SetupRouter(nil)

	for _, path := range []string{"/api/v1/users", "/api/v1/settings/storage"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestHealthAndAPINotFound(t *testing.T) {
	testRouterEnv(t)
	r := SetupRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "api route not found")
}
