package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/middleware"
	"github.com/rebanho/rebanho-backend/internal/service"
)

// EventHandler reproductive event log endpoints. There is no update or
// delete: the log is append-only.
type EventHandler struct {
	service service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// Append handles POST /api/v1/farms/:farmId/animals/:animalId/events
func (h *EventHandler) Append(c *gin.Context) {
	animalID, ok := pathID(c, "animalId")
	if !ok {
		return
	}
	var req domain.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.service.AppendEvent(c.Request.Context(), middleware.GetFarmID(c), animalID, &req)
	if err != nil {
		common.HandleServiceError(c, "Falha ao registrar evento", err)
		return
	}
	common.Created(c, event)
}

// List handles GET /api/v1/farms/:farmId/animals/:animalId/events?seasonId=
func (h *EventHandler) List(c *gin.Context) {
	animalID, ok := pathID(c, "animalId")
	if !ok {
		return
	}
	seasonID, ok := seasonQuery(c)
	if !ok {
		return
	}

	events, err := h.service.ListEvents(c.Request.Context(), middleware.GetFarmID(c), animalID, seasonID)
	if err != nil {
		common.HandleServiceError(c, "Falha ao listar eventos", err)
		return
	}
	if events == nil {
		events = []domain.ReproEvent{}
	}
	common.Success(c, events)
}
