package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/utils"
)

func proxyTestRouter(resolve func(context.Context, string, string) (string, error),
	open func(context.Context, string, string) (io.ReadCloser, error)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	p := &ProxyController{
		creds:   func(*gorm.DB) utils.StorageCredential { return utils.StorageCredential{BotToken: "tok"} },
		resolve: resolve,
		open:    open,
	}
	r := gin.New()
	r.GET("/proxy/:file_id", p.ProxyFile)
	return r
}

func TestProxyFileStreamsResolvedContent(t *testing.T) {
	r := proxyTestRouter(
		func(_ context.Context, fileID, token string) (string, error) {
			assert.Equal(t, "ABC123", fileID) // extension stripped before resolve
			assert.Equal(t, "tok", token)
			return "videos/x.mp4", nil
		},
		func(_ context.Context, filePath, _ string) (io.ReadCloser, error) {
			assert.Equal(t, "videos/x.mp4", filePath)
			return io.NopCloser(strings.NewReader("movie bytes")), nil
		},
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy/ABC123.mp4", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Equal(t, "movie bytes", w.Body.String())
}

func TestProxyFileUnresolvableReference(t *testing.T) {
	r := proxyTestRouter(
		func(context.Context, string, string) (string, error) {
			return "", utils.ErrFileNotFound
		},
		nil,
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy/expired", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProxyFileUnreachableBackend(t *testing.T) {
	r := proxyTestRouter(
		func(context.Context, string, string) (string, error) {
			return "", &utils.UpstreamError{Op: "resolve", Description: "connection refused"}
		},
		nil,
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy/ABC123", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestProxyFileStreamOpenFailure(t *testing.T) {
	r := proxyTestRouter(
		func(context.Context, string, string) (string, error) {
			return "videos/x.mp4", nil
		},
		func(context.Context, string, string) (io.ReadCloser, error) {
			return nil, &utils.UpstreamError{Op: "stream", Description: "unexpected status 500"}
		},
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy/ABC123", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestContentTypeForPath(t *testing.T) {
	cases := map[string]string{
		"documents/file_1.jpg":  "image/jpeg",
		"documents/file_1.JPEG": "image/jpeg",
		"photos/pic.png":        "image/png",
		"animations/a.gif":      "image/gif",
		"photos/pic.webp":       "image/webp",
		"videos/clip.mp4":       "video/mp4",
		"videos/clip.mov":       "video/quicktime",
		"documents/archive.zip": "application/octet-stream",
		"documents/noext":       "application/octet-stream",
	}
	for path, want := range cases {
		assert.Equal(t, want, ContentTypeForPath(path), path)
	}
}

func TestStripProxyExt(t *testing.T) {
	// The format-hint extension is cosmetic; the opaque reference before the
	// first dot is what the storage API understands.
	assert.Equal(t, "ABC123", StripProxyExt("ABC123.mp4"))
	assert.Equal(t, "ABC123", StripProxyExt("ABC123"))
	assert.Equal(t, "ABC123", StripProxyExt("ABC123.tar.gz"))
	assert.Equal(t, "", StripProxyExt(""))
}
