package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/requestdata"
	"github.com/yungbote/aistudio-backend/internal/services"
)

type AvatarHandler struct {
	log           *logger.Logger
	avatarService services.AvatarService
}

func NewAvatarHandler(log *logger.Logger, avatarService services.AvatarService) *AvatarHandler {
	return &AvatarHandler{
		log:           log.With("handler", "AvatarHandler"),
		avatarService: avatarService,
	}
}

// Create generates a single preview image. The response keeps the
// array-style payload the image provider uses, so the frontend can treat
// previews uniformly.
func (h *AvatarHandler) Create(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt" binding:"required,min=3"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, "invalid inputs")
		return
	}

	url, err := h.avatarService.GeneratePreview(c.Request.Context(), req.Prompt)
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{
		"created": time.Now().UnixMilli(),
		"data":    []gin.H{{"url": url, "revised_prompt": req.Prompt}},
	})
}

func (h *AvatarHandler) Previews(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt" binding:"required,min=3"`
		Num    int    `json:"num" binding:"omitempty,min=1,max=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, "invalid inputs")
		return
	}

	urls, err := h.avatarService.GeneratePreviews(c.Request.Context(), req.Prompt, req.Num)
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	data := make([]gin.H, 0, len(urls))
	for _, u := range urls {
		data = append(data, gin.H{"url": u, "revised_prompt": req.Prompt})
	}
	RespondOK(c, gin.H{"created": time.Now().UnixMilli(), "data": data})
}

func (h *AvatarHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	page, limit := pageParams(c)

	avatars, pagination, err := h.avatarService.List(c.Request.Context(), rd.UserID, page, limit)
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"avatars": avatars, "pagination": pagination})
}

func (h *AvatarHandler) Save(c *gin.Context) {
	var req struct {
		ImageURL  string `json:"imageUrl" binding:"required,url"`
		Prompt    string `json:"prompt" binding:"required,min=3"`
		Preferred bool   `json:"preferred"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, "invalid inputs")
		return
	}

	rd := requestdata.GetRequestData(c.Request.Context())
	avatar, err := h.avatarService.Save(c.Request.Context(), rd.UserID, services.SaveAvatarInput{
		ImageURL:  req.ImageURL,
		Prompt:    req.Prompt,
		Preferred: req.Preferred,
	})
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"message": "Avatar saved", "avatar": avatar})
}

func (h *AvatarHandler) Delete(c *gin.Context) {
	var req struct {
		AvatarID string `json:"avatarId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AvatarID == "" {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, "avatarId is required")
		return
	}
	avatarID, err := uuid.Parse(req.AvatarID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, "avatarId is required")
		return
	}

	rd := requestdata.GetRequestData(c.Request.Context())
	if err := h.avatarService.Delete(c.Request.Context(), rd.UserID, avatarID); err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"message": "Avatar deleted"})
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		limit = 0
	}
	return page, limit
}
