package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/middleware"
	"github.com/rebanho/rebanho-backend/internal/service"
	"github.com/rebanho/rebanho-backend/pkg/ginutil"
)

// GeneticsHandler KPI, summary and selection views
type GeneticsHandler struct {
	service service.GeneticsService
}

// NewGeneticsHandler creates a new GeneticsHandler
func NewGeneticsHandler(service service.GeneticsService) *GeneticsHandler {
	return &GeneticsHandler{service: service}
}

// AnimalKpis handles GET /api/v1/farms/:farmId/animals/:animalId/kpis?seasonId=
func (h *GeneticsHandler) AnimalKpis(c *gin.Context) {
	animalID, ok := pathID(c, "animalId")
	if !ok {
		return
	}
	seasonID, ok := seasonQuery(c)
	if !ok {
		return
	}
	row, err := h.service.AnimalKpis(c.Request.Context(), middleware.GetFarmID(c), animalID, seasonID)
	if err != nil {
		common.HandleServiceError(c, "Falha ao calcular indicadores", err)
		return
	}
	common.Success(c, row)
}

// Summary handles GET /api/v1/farms/:farmId/genetics/summary?seasonId=&limit=
func (h *GeneticsHandler) Summary(c *gin.Context) {
	seasonID, ok := seasonQuery(c)
	if !ok {
		return
	}
	limit := ginutil.QueryInt(c, "limit", 0)

	resp, err := h.service.Summary(c.Request.Context(), middleware.GetFarmID(c), seasonID, limit)
	if err != nil {
		common.HandleServiceError(c, "Falha ao gerar resumo", err)
		return
	}
	common.Success(c, resp)
}

// Selection handles GET /api/v1/farms/:farmId/genetics/selection?seasonId=&q=&onlyAlerted=&page=&per_page=
func (h *GeneticsHandler) Selection(c *gin.Context) {
	seasonID, ok := seasonQuery(c)
	if !ok {
		return
	}
	page, perPage := parsePagination(c)

	result, err := h.service.Selection(c.Request.Context(), middleware.GetFarmID(c), service.SelectionQuery{
		SeasonID:    seasonID,
		Query:       c.Query("q"),
		OnlyAlerted: ginutil.QueryBool(c, "onlyAlerted"),
		Page:        page,
		PerPage:     perPage,
	})
	if err != nil {
		common.HandleServiceError(c, "Falha ao carregar seleção", err)
		return
	}
	common.SuccessWithMeta(c, result, common.NewMeta(page, perPage, result.Total))
}
