package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/middleware"
	"github.com/rebanho/rebanho-backend/internal/service"
)

// SettingsHandler farm reproduction settings
type SettingsHandler struct {
	service service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /api/v1/farms/:farmId/repro/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context(), middleware.GetFarmID(c))
	if err != nil {
		common.HandleServiceError(c, "Falha ao carregar configurações", err)
		return
	}
	common.Success(c, settings)
}

// Update handles PUT /api/v1/farms/:farmId/repro/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req domain.ReproSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.service.UpdateSettings(c.Request.Context(), middleware.GetFarmID(c), &req)
	if err != nil {
		common.HandleServiceError(c, "Falha ao salvar configurações", err)
		return
	}
	common.Success(c, settings)
}
