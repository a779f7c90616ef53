package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/utils"
)

// ProxyController resolves relayed file references against the remote storage
// API and streams their content back to the client. The collaborator funcs
// default to the real storage layer and are swapped out in tests.
type ProxyController struct {
	db      *gorm.DB
	creds   func(*gorm.DB) utils.StorageCredential
	resolve func(context.Context, string, string) (string, error)
	open    func(context.Context, string, string) (io.ReadCloser, error)
}

// NewProxyController creates a new ProxyController instance.
func NewProxyController(db *gorm.DB) *ProxyController {
	return &ProxyController{
		db:      db,
		creds:   utils.GetTelegramSettings,
		resolve: utils.ResolveTelegramFile,
		open:    utils.OpenTelegramFileStream,
	}
}

var proxyContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
}

// ContentTypeForPath maps a resolved remote path to a response content type.
// Unknown extensions fall back to a generic binary type.
func ContentTypeForPath(path string) string {
	if ct, ok := proxyContentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// StripProxyExt removes the format-hint extension appended to proxy URLs.
// The remote reference itself never contains a dot.
func StripProxyExt(ref string) string {
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		return ref[:i]
	}
	return ref
}

// ProxyFile streams a relayed file. Two phases: resolve the opaque reference
// to a remote path, then relay the content chunkwise. The client's request
// context cancels the upstream pull on disconnect.
func (p *ProxyController) ProxyFile(ctx *gin.Context) {
	fileID := StripProxyExt(ctx.Param("file_id"))
	if fileID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40095, "missing file reference")
		return
	}

	cred := p.creds(p.db)
	if cred.BotToken == "" {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "storage credentials not configured")
		return
	}

	rctx := ctx.Request.Context()
	filePath, err := p.resolve(rctx, fileID, cred.BotToken)
	if err != nil {
		var ue *utils.UpstreamError
		switch {
		case errors.Is(err, utils.ErrFileNotFound):
			utils.Error(ctx, http.StatusNotFound, 40490, "file not found")
		case errors.As(err, &ue):
			utils.Error(ctx, http.StatusBadGateway, 50290, "failed to contact storage API")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to resolve file")
		}
		return
	}

	body, err := p.open(rctx, filePath, cred.BotToken)
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50291, "failed to open file stream")
		return
	}
	defer body.Close()

	ctx.Header("Content-Type", ContentTypeForPath(filePath))
	ctx.Header("Cache-Control", "public, max-age=3600")
	ctx.Status(http.StatusOK)

	// Relay verbatim without buffering the whole payload. A mid-transfer
	// upstream error simply terminates the stream; partial delivery is
	// acceptable and there is no retry.
	if _, err := io.Copy(ctx.Writer, body); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("proxy stream aborted for %s: %v", fileID, err)
		}
	}
}
