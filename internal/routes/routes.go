package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rebanho/rebanho-backend/internal/handler"
	"github.com/rebanho/rebanho-backend/internal/middleware"
	"github.com/rebanho/rebanho-backend/internal/repository"
)

// Handlers groups the handlers mounted under /api/v1
type Handlers struct {
	Settings  *handler.SettingsHandler
	Events    *handler.EventHandler
	Seasons   *handler.SeasonHandler
	Selection *handler.SelectionHandler
	Genetics  *handler.GeneticsHandler
}

// Setup configures all farm-scoped API routes. summaryMaxAge is the
// client cache lifetime for the genetics views; farmMiddleware runs after
// the farm has been resolved.
func Setup(router *gin.Engine, h Handlers, farmRepo repository.FarmRepository, summaryMaxAge time.Duration, farmMiddleware ...gin.HandlerFunc) {
	api := router.Group("/api/v1")

	farm := api.Group("/farms/:farmId", middleware.FarmScope(farmRepo))
	farm.Use(farmMiddleware...)

	// Reproduction settings (modo + limites)
	farm.GET("/repro/settings", h.Settings.Get)
	farm.PUT("/repro/settings", h.Settings.Update)

	// Per-animal event log, KPIs and decision
	animal := farm.Group("/animals/:animalId")
	animal.POST("/events", h.Events.Append)
	animal.GET("/events", h.Events.List)
	animal.GET("/kpis", middleware.CacheControl(0), h.Genetics.AnimalKpis)
	animal.GET("/decision", h.Selection.Get)
	animal.PUT("/decision", h.Selection.Set)
	animal.DELETE("/decision", h.Selection.Clear)

	// Breeding seasons (estações de monta)
	seasons := farm.Group("/seasons")
	seasons.POST("", h.Seasons.Create)
	seasons.GET("", h.Seasons.List)
	seasons.GET("/:seasonId", h.Seasons.Get)
	seasons.GET("/:seasonId/exposures", h.Seasons.ListExposures)
	seasons.POST("/:seasonId/exposures", h.Seasons.AddExposures)
	seasons.DELETE("/:seasonId/exposures/:animalId", h.Seasons.RemoveExposure)

	// Genetics views
	genetics := farm.Group("/genetics", middleware.CacheControl(summaryMaxAge))
	genetics.GET("/summary", h.Genetics.Summary)
	genetics.GET("/selection", h.Genetics.Selection)
}
