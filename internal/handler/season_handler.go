package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/middleware"
	"github.com/rebanho/rebanho-backend/internal/repro"
	"github.com/rebanho/rebanho-backend/internal/service"
)

// SeasonHandler breeding seasons and exposures
type SeasonHandler struct {
	service service.SeasonService
}

// NewSeasonHandler creates a new SeasonHandler
func NewSeasonHandler(service service.SeasonService) *SeasonHandler {
	return &SeasonHandler{service: service}
}

// Create handles POST /api/v1/farms/:farmId/seasons
func (h *SeasonHandler) Create(c *gin.Context) {
	var req domain.CreateSeasonRequest
	if !bindJSON(c, &req) {
		return
	}
	season, err := h.service.CreateSeason(c.Request.Context(), middleware.GetFarmID(c), &req)
	if err != nil {
		common.HandleServiceError(c, "Falha ao criar estação de monta", err)
		return
	}
	common.Created(c, season)
}

// List handles GET /api/v1/farms/:farmId/seasons
func (h *SeasonHandler) List(c *gin.Context) {
	seasons, err := h.service.ListSeasons(c.Request.Context(), middleware.GetFarmID(c))
	if err != nil {
		common.HandleServiceError(c, "Falha ao listar estações de monta", err)
		return
	}
	if seasons == nil {
		seasons = []domain.BreedingSeason{}
	}
	common.Success(c, seasons)
}

// Get handles GET /api/v1/farms/:farmId/seasons/:seasonId
func (h *SeasonHandler) Get(c *gin.Context) {
	seasonID, ok := pathID(c, "seasonId")
	if !ok {
		return
	}
	season, err := h.service.GetSeason(c.Request.Context(), middleware.GetFarmID(c), seasonID)
	if err != nil {
		common.HandleServiceError(c, "Estação de monta não encontrada", err)
		return
	}
	common.Success(c, season)
}

// ListExposures handles GET /api/v1/farms/:farmId/seasons/:seasonId/exposures
func (h *SeasonHandler) ListExposures(c *gin.Context) {
	seasonID, ok := pathID(c, "seasonId")
	if !ok {
		return
	}
	animals, err := h.service.ListExposures(c.Request.Context(), middleware.GetFarmID(c), seasonID)
	if err != nil {
		common.HandleServiceError(c, "Falha ao listar animais expostos", err)
		return
	}
	refs := make([]repro.AnimalRef, len(animals))
	for i := range animals {
		refs[i] = repro.RefOf(&animals[i])
	}
	common.Success(c, refs)
}

// AddExposures handles POST /api/v1/farms/:farmId/seasons/:seasonId/exposures
func (h *SeasonHandler) AddExposures(c *gin.Context) {
	seasonID, ok := pathID(c, "seasonId")
	if !ok {
		return
	}
	var req domain.AddExposuresRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.AddExposures(c.Request.Context(), middleware.GetFarmID(c), seasonID, req.AnimalIDs)
	if err != nil {
		common.HandleServiceError(c, "Falha ao expor animais", err)
		return
	}
	common.Success(c, result)
}

// RemoveExposure handles DELETE /api/v1/farms/:farmId/seasons/:seasonId/exposures/:animalId
func (h *SeasonHandler) RemoveExposure(c *gin.Context) {
	seasonID, ok := pathID(c, "seasonId")
	if !ok {
		return
	}
	animalID, ok := pathID(c, "animalId")
	if !ok {
		return
	}
	if err := h.service.RemoveExposure(c.Request.Context(), middleware.GetFarmID(c), seasonID, animalID); err != nil {
		common.HandleServiceError(c, "Falha ao remover exposição", err)
		return
	}
	c.Status(http.StatusNoContent)
}
