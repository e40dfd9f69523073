package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/middleware"
	"github.com/rebanho/rebanho-backend/internal/service"
)

// SelectionHandler curator decision endpoints
type SelectionHandler struct {
	service service.SelectionService
}

// NewSelectionHandler creates a new SelectionHandler
func NewSelectionHandler(service service.SelectionService) *SelectionHandler {
	return &SelectionHandler{service: service}
}

// Get handles GET /api/v1/farms/:farmId/animals/:animalId/decision.
// Responds with data null when the animal has no decision.
func (h *SelectionHandler) Get(c *gin.Context) {
	animalID, ok := pathID(c, "animalId")
	if !ok {
		return
	}
	decision, err := h.service.GetDecision(c.Request.Context(), middleware.GetFarmID(c), animalID)
	if err != nil {
		common.HandleServiceError(c, "Falha ao carregar decisão", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": decision})
}

// Set handles PUT /api/v1/farms/:farmId/animals/:animalId/decision
func (h *SelectionHandler) Set(c *gin.Context) {
	animalID, ok := pathID(c, "animalId")
	if !ok {
		return
	}
	var req domain.SetDecisionRequest
	if !bindJSON(c, &req) {
		return
	}
	decision, err := h.service.SetDecision(c.Request.Context(), middleware.GetFarmID(c), animalID, &req)
	if err != nil {
		common.HandleServiceError(c, "Falha ao salvar decisão", err)
		return
	}
	common.Success(c, decision)
}

// Clear handles DELETE /api/v1/farms/:farmId/animals/:animalId/decision
func (h *SelectionHandler) Clear(c *gin.Context) {
	animalID, ok := pathID(c, "animalId")
	if !ok {
		return
	}
	if err := h.service.ClearDecision(c.Request.Context(), middleware.GetFarmID(c), animalID); err != nil {
		common.HandleServiceError(c, "Falha ao remover decisão", err)
		return
	}
	c.Status(http.StatusNoContent)
}
