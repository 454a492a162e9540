package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ikkim/reviewhub-backend/internal/errors"
	"github.com/ikkim/reviewhub-backend/internal/middleware"
	"github.com/ikkim/reviewhub-backend/internal/storage"
)

type UploadController struct {
	storage   storage.Storage
	validator *storage.Validator
}

func NewUploadController(store storage.Storage, validator *storage.Validator) *UploadController {
	return &UploadController{
		storage:   store,
		validator: validator,
	}
}

// storeImage validates and persists one multipart image, returning its URL.
// On failure it writes the error response and returns ok=false.
func storeImage(c *gin.Context, store storage.Storage, validator *storage.Validator, fileHeader *multipart.FileHeader) (string, bool) {
	log := middleware.GetLoggerFromContext(c)

	contentType := fileHeader.Header.Get("Content-Type")
	if err := validator.ValidateImage(contentType, fileHeader.Size); err != nil {
		if errors.Is(err, storage.ErrInvalidFileType) {
			log.Warn("Upload rejected: invalid file type", map[string]interface{}{
				"content_type": contentType,
			})
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "JPEG, PNG, WEBP 이미지만 업로드할 수 있습니다")
			return "", false
		}
		if errors.Is(err, storage.ErrFileTooLarge) {
			log.Warn("Upload rejected: file too large", map[string]interface{}{
				"size": fileHeader.Size,
			})
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "파일 크기는 2MB를 초과할 수 없습니다")
			return "", false
		}
		apperrors.BadRequest(c, apperrors.UploadFailed, "업로드할 수 없는 파일입니다")
		return "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err)
		apperrors.InternalError(c, "업로드 처리 중 오류가 발생했습니다")
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, validator.MaxFileSize()+1))
	if err != nil {
		log.Error("Failed to read uploaded file", err)
		apperrors.InternalError(c, "업로드 처리 중 오류가 발생했습니다")
		return "", false
	}

	// multipart 헤더의 크기를 속인 경우 대비
	if int64(len(data)) > validator.MaxFileSize() {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "파일 크기는 2MB를 초과할 수 없습니다")
		return "", false
	}

	url, err := store.Save(c.Request.Context(), fileHeader.Filename, contentType, data)
	if err != nil {
		log.Error("Failed to store uploaded file", err, map[string]interface{}{
			"filename": fileHeader.Filename,
		})
		apperrors.InternalError(c, "업로드에 실패했습니다. 잠시 후 다시 시도해주세요")
		return "", false
	}

	log.Info("Image uploaded successfully", map[string]interface{}{
		"filename":     fileHeader.Filename,
		"content_type": contentType,
		"size":         fileHeader.Size,
		"url":          url,
	})
	return url, true
}

// storeOptionalFormImage stores the "image" form field when present.
// Absence is not an error: returns ("", true).
func storeOptionalFormImage(c *gin.Context, store storage.Storage, validator *storage.Validator) (string, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", true
	}
	return storeImage(c, store, validator, fileHeader)
}

// UploadImage receives a multipart image and stores it
// POST /api/upload/image (field name: "image")
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "이미지 파일을 첨부해주세요")
		return
	}

	url, ok := storeImage(c, ctrl.storage, ctrl.validator, fileHeader)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Image uploaded successfully",
		"image_url": url,
	})
}
