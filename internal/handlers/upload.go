package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/services"
)

type UploadHandler struct {
	log    *logger.Logger
	bucket services.BucketService
}

func NewUploadHandler(log *logger.Logger, bucket services.BucketService) *UploadHandler {
	return &UploadHandler{
		log:    log.With("handler", "UploadHandler"),
		bucket: bucket,
	}
}

// Presign hands the client a short-lived direct-upload URL so large audio
// files bypass the backend.
func (h *UploadHandler) Presign(c *gin.Context) {
	var req struct {
		FileName    string `json:"fileName" binding:"required"`
		ContentType string `json:"contentType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, "fileName and contentType are required")
		return
	}

	url, key, err := h.bucket.PresignUpload(c.Request.Context(), req.FileName, req.ContentType)
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"url": url, "key": key})
}
