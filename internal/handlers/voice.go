package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/requestdata"
	"github.com/yungbote/aistudio-backend/internal/services"
)

type VoiceHandler struct {
	log          *logger.Logger
	voiceService services.VoiceService
}

func NewVoiceHandler(log *logger.Logger, voiceService services.VoiceService) *VoiceHandler {
	return &VoiceHandler{
		log:          log.With("handler", "VoiceHandler"),
		voiceService: voiceService,
	}
}

func (h *VoiceHandler) Synthesize(c *gin.Context) {
	var req struct {
		Text          string `json:"text"`
		Prompt        string `json:"prompt"`
		VoiceID       string `json:"voiceId"`
		ModelID       string `json:"model_id"`
		VoiceSettings *struct {
			Stability       *float64 `json:"stability"`
			SimilarityBoost *float64 `json:"similarity_boost"`
		} `json:"voice_settings"`
	}
	// The body is free-form here; the service decides what is missing.
	_ = c.ShouldBindJSON(&req)

	in := services.SynthesizeInput{
		Text:    req.Text,
		Prompt:  req.Prompt,
		VoiceID: req.VoiceID,
		ModelID: req.ModelID,
	}
	if req.VoiceSettings != nil {
		in.Stability = req.VoiceSettings.Stability
		in.Similarity = req.VoiceSettings.SimilarityBoost
	}

	rd := requestdata.GetRequestData(c.Request.Context())
	result, err := h.voiceService.Synthesize(c.Request.Context(), rd.UserID, in)
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, result)
}

func (h *VoiceHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	assets, err := h.voiceService.ListAssets(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"voices": assets})
}

// ProviderVoices proxies the speech provider's voice catalog untouched.
func (h *VoiceHandler) ProviderVoices(c *gin.Context) {
	raw, err := h.voiceService.ProviderVoices(c.Request.Context())
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
