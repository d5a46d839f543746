package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/requestdata"
	"github.com/yungbote/aistudio-backend/internal/services"
)

type StudioHandler struct {
	log           *logger.Logger
	studioService services.StudioService
}

func NewStudioHandler(log *logger.Logger, studioService services.StudioService) *StudioHandler {
	return &StudioHandler{
		log:           log.With("handler", "StudioHandler"),
		studioService: studioService,
	}
}

func (h *StudioHandler) Summary(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	summary, err := h.studioService.Summary(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, summary)
}
