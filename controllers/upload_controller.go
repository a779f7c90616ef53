package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/config"
	"github.com/Tamurbek/dacha-bron/utils"
)

var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".heic": true,
	".heif": true,
}

// UploadController receives media files and hands them to the storage backends.
type UploadController struct {
	db *gorm.DB
}

// NewUploadController creates a new UploadController instance.
func NewUploadController(db *gorm.DB) *UploadController {
	return &UploadController{db: db}
}

type extNotAllowedError struct {
	ext string
}

func (e *extNotAllowedError) Error() string {
	return fmt.Sprintf("file extension %q is not allowed; allowed: %s", e.ext, allowedExtList())
}

func allowedExtList() string {
	exts := make([]string, 0, len(allowedUploadExts))
	for e := range allowedUploadExts {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

// storeOne validates and uploads a single multipart file. The extension check
// runs before anything is read or any external call is made.
func (u *UploadController) storeOne(ctx *gin.Context, fh *multipart.FileHeader) (gin.H, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedUploadExts[ext] {
		return nil, &extNotAllowedError{ext: ext}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	// Settings rows are re-read per upload so credential updates take effect
	// immediately.
	cred := utils.GetTelegramSettings(u.db)
	url, err := utils.StoreUpload(ctx.Request.Context(), content, fh.Filename, cred, config.Get().PublicBaseURL)
	if err != nil {
		return nil, err
	}
	return gin.H{"url": url, "filename": fh.Filename}, nil
}

func respondUploadError(ctx *gin.Context, err error) {
	var extErr *extNotAllowedError
	switch {
	case errors.As(err, &extErr):
		utils.Error(ctx, http.StatusBadRequest, 40090, extErr.Error())
	case errors.Is(err, utils.ErrStorageNotConfigured):
		utils.Error(ctx, http.StatusInternalServerError, 50090, "storage credentials not configured")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50091, "upload failed: "+err.Error())
	}
}

// UploadFile handles a single-file multipart upload.
func (u *UploadController) UploadFile(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40091, "missing file field")
		return
	}
	res, err := u.storeOne(ctx, fh)
	if err != nil {
		respondUploadError(ctx, err)
		return
	}
	utils.Success(ctx, res)
}

// UploadFiles handles a multi-file upload as a sequential fan-out over the
// single-file path. The first failure aborts the batch; results of files not
// yet attempted are discarded.
func (u *UploadController) UploadFiles(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40092, "invalid multipart form")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40093, "missing files field")
		return
	}

	results := make([]gin.H, 0, len(files))
	for _, fh := range files {
		res, err := u.storeOne(ctx, fh)
		if err != nil {
			respondUploadError(ctx, err)
			return
		}
		results = append(results, res)
	}
	utils.Success(ctx, gin.H{"items": results})
}
