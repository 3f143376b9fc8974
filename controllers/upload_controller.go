package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/mememates/services"
	"github.com/cppla/mememates/utils"
)

const (
	msgNoFile      = "No file uploaded"
	msgTooLarge    = "File too large. Maximum size is 10MB"
	msgUnsupported = "File upload only supports PDF, Word documents, and images!"

	// room for the multipart envelope around a maximum size file
	multipartOverhead = 1 << 20
)

// UploadController stores mood board files and serves them back.
type UploadController struct {
	uploader *services.Uploader
}

// NewUploadController creates an UploadController.
func NewUploadController(uploader *services.Uploader) *UploadController {
	return &UploadController{uploader: uploader}
}

// Upload accepts a single multipart field named "file".
func (u *UploadController) Upload(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, services.MaxUploadSize+multipartOverhead)

	header, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			utils.Fail(ctx, http.StatusBadRequest, msgTooLarge)
			return
		}
		utils.Fail(ctx, http.StatusBadRequest, msgNoFile)
		return
	}

	src, err := header.Open()
	if err != nil {
		utils.Logger.Error("open multipart file failed", zap.Error(err))
		utils.Fail(ctx, http.StatusInternalServerError, "Error uploading file")
		return
	}
	defer src.Close()

	file, err := u.uploader.Save(ctx.Request.Context(), services.UploadInput{
		OriginalName: header.Filename,
		DeclaredMIME: header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         src,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFileProvided):
			utils.Fail(ctx, http.StatusBadRequest, msgNoFile)
		case errors.Is(err, services.ErrFileTooLarge):
			utils.Fail(ctx, http.StatusBadRequest, msgTooLarge)
		case errors.Is(err, services.ErrUnsupportedFileType):
			utils.Logger.Info("upload rejected", zap.String("name", header.Filename), zap.Error(err))
			utils.Fail(ctx, http.StatusBadRequest, msgUnsupported)
		default:
			utils.Logger.Error("store upload failed", zap.Error(err))
			utils.Fail(ctx, http.StatusInternalServerError, "Error uploading file")
		}
		return
	}

	utils.Logger.Info("file uploaded",
		zap.String("filename", file.Filename),
		zap.String("mime", file.MimeType),
		zap.Int64("size", file.Size),
	)
	utils.Respond(ctx, http.StatusCreated, true, "File uploaded successfully", gin.H{"file": file})
}

// Serve returns a stored upload. Only plain names with an allowed extension are served;
// the content type comes from the extension, never from the bytes.
func (u *UploadController) Serve(ctx *gin.Context) {
	name := ctx.Param("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		utils.Fail(ctx, http.StatusNotFound, "File not found")
		return
	}
	contentType := services.ContentTypeFor(name)
	if contentType == "" {
		utils.Fail(ctx, http.StatusNotFound, "File not found")
		return
	}

	path := filepath.Join(u.uploader.Dir(), name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		utils.Fail(ctx, http.StatusNotFound, "File not found")
		return
	}

	h := ctx.Writer.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Type", contentType)
	if !strings.HasPrefix(contentType, "image/") {
		h.Set("Content-Disposition", "attachment")
	}
	ctx.File(path)
}
