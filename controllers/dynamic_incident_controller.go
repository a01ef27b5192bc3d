package controllers

import (
	"net/http"

	"agentedigitalapi/services"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
)

var sectionSrv services.SectionService

// SetSectionService injects the dynamic section service.
func SetSectionService(s services.SectionService) {
	sectionSrv = s
}

// getCompanySections lists the sections that apply to a company
// @Summary Company sections
// @Tags Dynamic incidents
// @Produce json
// @Param empresa_id path int true "Company ID"
// @Success 200 {array} models.SectionConfig
// @Failure 404 {object} ErrorResponse "Company not found"
// @Router /api/incidente-dinamico/secciones-empresa/{empresa_id} [get]
func getCompanySections(c *gin.Context) {
	id, ok := pathID(c, "empresa_id")
	if !ok {
		return
	}
	sections, err := sectionSrv.CompanySections(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, sections)
}

// createDynamicIncident creates an incident with one data row per section
// @Summary Create dynamic incident
// @Tags Dynamic incidents
// @Accept json
// @Produce json
// @Param incident body dto.DynamicIncidentCreate true "Incident data"
// @Success 201 {object} services.DynamicIncidentCreated
// @Failure 400 {object} ValidationErrorResponse "Missing fields"
// @Failure 404 {object} ErrorResponse "Company not found"
// @Router /api/incidente-dinamico/crear [post]
func createDynamicIncident(c *gin.Context) {
	var req dto.DynamicIncidentCreate
	if !bindJSON(c, &req) {
		return
	}
	created, err := sectionSrv.Create(c.Request.Context(), req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, created)
}

// saveSection stores the data of one section
// @Summary Save section
// @Tags Dynamic incidents
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param sid path int true "Section ID"
// @Param section body dto.SectionSave true "Section data"
// @Success 200 {object} services.SectionSaved
// @Failure 404 {object} ErrorResponse "Incident or section not found"
// @Router /api/incidente-dinamico/{id}/seccion/{sid} [put]
func saveSection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sid, ok := pathID(c, "sid")
	if !ok {
		return
	}
	var req dto.SectionSave
	if !bindJSON(c, &req) {
		return
	}
	saved, err := sectionSrv.Save(c.Request.Context(), id, sid, req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, saved)
}

// addSectionComment adds a comment to a section
// @Summary Comment section
// @Tags Dynamic incidents
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param sid path int true "Section ID"
// @Param comment body dto.SectionCommentCreate true "Comment"
// @Success 201 {object} models.SectionComment
// @Failure 400 {object} ErrorResponse "Comment limit reached"
// @Failure 404 {object} ErrorResponse "Incident or section not found"
// @Router /api/incidente-dinamico/{id}/seccion/{sid}/comentario [post]
func addSectionComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sid, ok := pathID(c, "sid")
	if !ok {
		return
	}
	var req dto.SectionCommentCreate
	if !bindJSON(c, &req) {
		return
	}
	comment, err := sectionSrv.AddComment(c.Request.Context(), id, sid, req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, comment)
}

// uploadSectionFile uploads a file to a section
// @Summary Upload section file
// @Tags Dynamic incidents
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Incident ID"
// @Param sid path int true "Section ID"
// @Param archivo formData file true "File"
// @Param descripcion formData string false "Description"
// @Param usuario formData string false "Uploading user"
// @Success 201 {object} models.SectionFile
// @Failure 400 {object} ErrorResponse "File limit reached or file too large"
// @Failure 404 {object} ErrorResponse "Incident or section not found"
// @Router /api/incidente-dinamico/{id}/seccion/{sid}/archivo [post]
func uploadSectionFile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sid, ok := pathID(c, "sid")
	if !ok {
		return
	}
	header, content, ok := formFile(c, "archivo")
	if !ok {
		return
	}
	file, err := sectionSrv.UploadFile(c.Request.Context(), id, sid, dto.SectionFileUpload{
		FileName:    header.Filename,
		Content:     content,
		ContentType: header.Header.Get("Content-Type"),
		Descripcion: c.PostForm("descripcion"),
		Usuario:     c.PostForm("usuario"),
	})
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, file)
}

// loadDynamicIncident returns an incident with all of its sections
// @Summary Load dynamic incident
// @Tags Dynamic incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} services.DynamicIncident
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/incidente-dinamico/{id} [get]
func loadDynamicIncident(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	incident, err := sectionSrv.Load(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, incident)
}

// getSectionSummary returns the per-section progress of an incident
// @Summary Section summary
// @Tags Dynamic incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} services.SectionSummary
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/incidente-dinamico/{id}/resumen [get]
func getSectionSummary(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := sectionSrv.Summary(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, summary)
}

// RegisterDynamicIncidentRoutes registers the dynamic section endpoints under /api.
func RegisterDynamicIncidentRoutes(rg *gin.RouterGroup) {
	if sectionSrv == nil {
		sectionSrv = services.NewSectionService()
	}
	initIncidentServices()
	dinamico := rg.Group("/incidente-dinamico")
	{
		dinamico.GET("/secciones-empresa/:empresa_id", getCompanySections)
		dinamico.POST("/crear", createDynamicIncident)
		dinamico.GET("/:id", loadDynamicIncident)
		dinamico.GET("/:id/resumen", getSectionSummary)
		dinamico.DELETE("/:id", deleteIncident)
		dinamico.PUT("/:id/seccion/:sid", saveSection)
		dinamico.POST("/:id/seccion/:sid/comentario", addSectionComment)
		dinamico.POST("/:id/seccion/:sid/archivo", uploadSectionFile)
	}
}
