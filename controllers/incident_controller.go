package controllers

import (
	"net/http"

	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/services"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
)

var (
	incidentSrv services.IncidentService
	anciSrv     services.AnciService
	cascadeSrv  services.CascadeService
)

// SetIncidentService injects the incident service.
func SetIncidentService(s services.IncidentService) {
	incidentSrv = s
}

// SetAnciService injects the ANCI validation service.
func SetAnciService(s services.AnciService) {
	anciSrv = s
}

// SetCascadeService injects the incident deletion service.
func SetCascadeService(s services.CascadeService) {
	cascadeSrv = s
}

// createIncident creates an incident from the full form
// @Summary Create incident
// @Description Validates the form, assigns the visible index, stores taxonomies and writes the draft seed.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body dto.IncidentCreate true "Incident form"
// @Success 201 {object} services.IncidentCreated
// @Failure 400 {object} ValidationErrorResponse "Missing fields or taxonomies"
// @Failure 404 {object} ErrorResponse "Company not found"
// @Router /api/incidentes/crear [post]
func createIncident(c *gin.Context) {
	var req dto.IncidentCreate
	if !bindJSON(c, &req) {
		return
	}
	created, err := incidentSrv.Create(c.Request.Context(), req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, created)
}

// updateIncident updates an incident from the edit form
// @Summary Update incident
// @Description Accepts form keys ("1.2") or column names. taxonomias_seleccionadas replaces the taxonomies and archivos_eliminados removes section files.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param datos body object true "Changed fields"
// @Success 200 {object} services.IncidentUpdated
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/incidentes/{id}/actualizar [put]
func updateIncident(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	datos, ok := bindMap(c)
	if !ok {
		return
	}
	usuario, _ := datos["usuario"].(string)
	updated, err := incidentSrv.Update(c.Request.Context(), id, datos, usuario)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, updated)
}

// saveDraft overwrites the draft seed of an incident
// @Summary Save incident draft
// @Tags Incidents
// @Accept json
// @Produce json
// @Param datos body object true "Draft data including indice_unico"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Missing indice_unico"
// @Failure 404 {object} ErrorResponse "Seed not found"
// @Router /api/incidentes/borrador [post]
func saveDraft(c *gin.Context) {
	datos, ok := bindMap(c)
	if !ok {
		return
	}
	if err := incidentSrv.SaveDraft(c.Request.Context(), datos); err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"success": true, "message": "Borrador guardado"})
}

// getIncident returns the detail of an incident
// @Summary Get incident
// @Tags Incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} services.IncidentDetail
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/admin/incidentes/{id} [get]
func getIncident(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := incidentSrv.Get(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, detail)
}

// getIncidentStats returns evidence, comment and completeness counts
// @Summary Incident statistics
// @Tags Incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} services.IncidentStats
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/admin/incidentes/{id}/estadisticas [get]
func getIncidentStats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := incidentSrv.Stats(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, stats)
}

// validateForAnci checks whether an incident can be declared to ANCI
// @Summary Validate incident for ANCI
// @Tags ANCI
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} services.AnciValidation
// @Failure 400 {object} services.AnciValidation "Missing fields or already declared"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/admin/incidentes/{id}/validar-para-anci [get]
func validateForAnci(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	validation, err := anciSrv.Validate(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	if !validation.Valido {
		utils.JSONResponse(c, http.StatusBadRequest, validation)
		return
	}
	utils.JSONResponse(c, http.StatusOK, validation)
}

// transformToAnci declares an incident to ANCI
// @Summary Transform incident to ANCI
// @Description Creates the initial ANCI report and marks the incident as declared, in one transaction.
// @Tags ANCI
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} services.AnciTransformation
// @Failure 400 {object} ValidationErrorResponse "Missing fields or already declared"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/admin/incidentes/{id}/transformar-anci [post]
func transformToAnci(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Usuario string `json:"usuario"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := anciSrv.Transform(c.Request.Context(), id, body.Usuario)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, result)
}

// deleteIncident deletes an incident and everything that hangs from it
// @Summary Delete incident
// @Description Deletes dependent rows in order inside one transaction, then removes files and temp seeds.
// @Tags Incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} services.DeletionResult
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/admin/incidentes/{id} [delete]
// @Router /api/admin/incidentes/{id}/eliminar-completo [delete]
// @Router /api/incidente-dinamico/{id} [delete]
func deleteIncident(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := cascadeSrv.Delete(c.Request.Context(), id)
	if err != nil {
		logger.Errorf("Failed to delete incident %d: %v", id, err)
		utils.StatusErrorResponse(c, err)
		return
	}
	logger.Infof("Deleted incident %d, %d tables affected", id, len(result.Detalles.TablasAfectadas))
	utils.JSONResponse(c, http.StatusOK, result)
}

func initIncidentServices() {
	if incidentSrv == nil {
		incidentSrv = services.NewIncidentService()
	}
	if anciSrv == nil {
		anciSrv = services.NewAnciService()
	}
	if cascadeSrv == nil {
		cascadeSrv = services.NewCascadeService()
	}
}

// RegisterIncidentRoutes registers the incident form endpoints under /api.
func RegisterIncidentRoutes(rg *gin.RouterGroup) {
	initIncidentServices()
	incidentes := rg.Group("/incidentes")
	{
		incidentes.POST("/crear", createIncident)
		incidentes.POST("/borrador", saveDraft)
		incidentes.PUT("/:id/actualizar", updateIncident)
	}
}

// RegisterIncidentAdminRoutes registers the incident admin endpoints under /api/admin.
func RegisterIncidentAdminRoutes(rg *gin.RouterGroup) {
	initIncidentServices()
	incidentes := rg.Group("/incidentes")
	{
		incidentes.GET("/:id", getIncident)
		incidentes.GET("/:id/estadisticas", getIncidentStats)
		incidentes.GET("/:id/validar-para-anci", validateForAnci)
		incidentes.POST("/:id/transformar-anci", transformToAnci)
		incidentes.DELETE("/:id", deleteIncident)
		incidentes.DELETE("/:id/eliminar-completo", deleteIncident)
	}
}
