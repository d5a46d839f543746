package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/requestdata"
	"github.com/yungbote/aistudio-backend/internal/services"
)

type VideoHandler struct {
	log          *logger.Logger
	videoService services.VideoService
}

func NewVideoHandler(log *logger.Logger, videoService services.VideoService) *VideoHandler {
	return &VideoHandler{
		log:          log.With("handler", "VideoHandler"),
		videoService: videoService,
	}
}

func (h *VideoHandler) Create(c *gin.Context) {
	var req struct {
		AvatarID     string `json:"avatarId" binding:"required"`
		ImageURL     string `json:"imageUrl" binding:"omitempty,url"`
		Script       string `json:"script"`
		VoiceID      string `json:"voiceId"`
		AudioKey     string `json:"audioKey"`
		AudioURL     string `json:"audioUrl" binding:"omitempty,url"`
		Prompt       string `json:"prompt"`
		RefinePrompt *bool  `json:"refinePrompt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, "invalid inputs")
		return
	}
	avatarID, err := uuid.Parse(req.AvatarID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, "invalid avatarId")
		return
	}

	rd := requestdata.GetRequestData(c.Request.Context())
	job, err := h.videoService.Create(c.Request.Context(), rd.UserID, services.CreateVideoInput{
		AvatarID:     avatarID,
		ImageURL:     req.ImageURL,
		Script:       req.Script,
		VoiceID:      req.VoiceID,
		AudioKey:     req.AudioKey,
		AudioURL:     req.AudioURL,
		Prompt:       req.Prompt,
		RefinePrompt: req.RefinePrompt,
	})
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"message": "Video created", "job": job})
}

func (h *VideoHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	page, limit := pageParams(c)

	jobs, pagination, err := h.videoService.List(c.Request.Context(), rd.UserID, page, limit)
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"jobs": jobs, "pagination": pagination})
}
