package controllers

import (
	"net/http"

	"agentedigitalapi/bootstrap"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
)

var healthRepo repository.BaseRepository

// SetHealthRepository injects the repository used to ping the database.
func SetHealthRepository(r repository.BaseRepository) {
	healthRepo = r
}

// getHealth reports service and database status
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /api/health [get]
func getHealth(c *gin.Context) {
	database := "ok"
	if err := healthRepo.Ping(); err != nil {
		logger.Errorf("Health check database ping failed: %v", err)
		database = "error"
	}
	sections, indicators := bootstrap.CatalogSize()
	utils.JSONResponse(c, http.StatusOK, HealthResponse{
		Status:   "ok",
		Database: database,
		Catalogo: CatalogStatus{Secciones: sections, Indicadores: indicators},
	})
}

// RegisterHealthRoutes registers the health endpoint under /api.
func RegisterHealthRoutes(rg *gin.RouterGroup) {
	if healthRepo == nil {
		healthRepo = repository.NewBaseRepository()
	}
	rg.GET("/health", getHealth)
}
