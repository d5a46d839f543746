package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aistudio-backend/internal/config"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/services"
)

type DevHandler struct {
	log                *logger.Logger
	cfg                *config.Config
	maintenanceService services.MaintenanceService
}

func NewDevHandler(log *logger.Logger, cfg *config.Config, maintenanceService services.MaintenanceService) *DevHandler {
	return &DevHandler{
		log:                log.With("handler", "DevHandler"),
		cfg:                cfg,
		maintenanceService: maintenanceService,
	}
}

// Wipe empties all tables. Intentionally unauthenticated but refused in
// production.
func (h *DevHandler) Wipe(c *gin.Context) {
	if h.cfg.IsProduction() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden in production"})
		return
	}

	counts, err := h.maintenanceService.WipeAll(c.Request.Context())
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"message": "Database wiped", "counts": counts})
}
