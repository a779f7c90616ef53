package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tamurbek/dacha-bron/utils"
)

func uploadTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	// Rejection paths never touch the database or any backend, so a nil
	// handle is enough here.
	u := NewUploadController(nil)
	r := gin.New()
	r.POST("/upload/file", u.UploadFile)
	r.POST("/upload/files", u.UploadFiles)
	return r
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadFileRejectsDisallowedExtension(t *testing.T) {
	r := uploadTestRouter()
	body, ct := multipartBody(t, "file", "malware.exe", []byte("x"))

	req := httptest.NewRequest(http.MethodPost, "/upload/file", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40090, resp.Code)
	// The message names the offending extension and lists what is accepted.
	assert.Contains(t, resp.Message, `".exe"`)
	assert.Contains(t, resp.Message, ".heic")
	assert.Contains(t, resp.Message, ".mp4")
}

func TestUploadFileMissingField(t *testing.T) {
	r := uploadTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/upload/file", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40091, resp.Code)
}

func TestUploadFilesMissingField(t *testing.T) {
	r := uploadTestRouter()
	body, ct := multipartBody(t, "wrongfield", "a.jpg", []byte("x"))

	req := httptest.NewRequest(http.MethodPost, "/upload/files", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40093, resp.Code)
}

func TestUploadFilesFirstFailureAborts(t *testing.T) {
	r := uploadTestRouter()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	// Disallowed file first: the batch must fail before any upload attempt.
	fw, err := mw.CreateFormFile("files", "doc.pdf")
	require.NoError(t, err)
	fw.Write([]byte("x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40090, resp.Code)
}

func TestAllowedUploadExts(t *testing.T) {
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".mp4", ".mov", ".webm", ".heic", ".heif"} {
		assert.True(t, allowedUploadExts[ext], ext)
	}
	for _, ext := range []string{".exe", ".pdf", ".svg", ".avi", ""} {
		assert.False(t, allowedUploadExts[ext], ext)
	}
}
