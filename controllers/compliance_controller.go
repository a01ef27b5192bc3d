package controllers

import (
	"net/http"
	"path/filepath"

	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/services"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
)

var (
	obligationSrv services.ObligationService
	complianceSrv services.ComplianceService
	evidenceSrv   services.EvidenceService
)

// SetObligationService injects the obligation catalog service.
func SetObligationService(s services.ObligationService) {
	obligationSrv = s
}

// SetComplianceService injects the compliance service.
func SetComplianceService(s services.ComplianceService) {
	complianceSrv = s
}

// SetEvidenceService injects the compliance evidence service.
func SetEvidenceService(s services.EvidenceService) {
	evidenceSrv = s
}

// listObligations lists the obligation catalog
// @Summary List obligations
// @Tags Compliance
// @Produce json
// @Param tipo_empresa query string false "OIV, PSE or AMBAS"
// @Success 200 {array} models.Obligation
// @Router /api/admin/obligaciones [get]
func listObligations(c *gin.Context) {
	obligations, err := obligationSrv.List(c.Request.Context(), c.Query("tipo_empresa"))
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, obligations)
}

// listCompanyCompliance lists the compliance records of a company
// @Summary List company compliance records
// @Tags Compliance
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {array} repository.ComplianceWithObligation
// @Router /api/admin/empresas/{id}/cumplimientos [get]
func listCompanyCompliance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	records, err := complianceSrv.ListByCompany(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, records)
}

// createCompanyCompliance creates a compliance record for a company
// @Summary Create compliance record
// @Tags Compliance
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param record body dto.ComplianceUpsert true "Record data; EmpresaID is taken from the path"
// @Success 201 {object} services.UpsertResult
// @Failure 404 {object} ErrorResponse "Company or obligation not found"
// @Failure 409 {object} ErrorResponse "Record already exists"
// @Router /api/admin/empresas/{id}/cumplimientos [post]
func createCompanyCompliance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ComplianceUpsert
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.StatusErrorResponse(c, utils.InvalidInputf("Cuerpo de la solicitud inválido"))
		return
	}
	req.EmpresaID = id
	if err := utils.ValidateStruct(&req); err != nil {
		utils.StatusErrorResponse(c, &utils.ValidationError{Message: "Datos inválidos", Detalles: utils.ValidationDetails(err)})
		return
	}
	result, err := complianceSrv.CreateForCompany(c.Request.Context(), id, req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, result)
}

// upsertCompliance creates or updates the record of a company and obligation
// @Summary Upsert compliance record
// @Description Updates the record of (EmpresaID, ObligacionID) when it exists (200), otherwise inserts it (201). State and progress changes are recorded in the history.
// @Tags Compliance
// @Accept json
// @Produce json
// @Param record body dto.ComplianceUpsert true "Record data"
// @Success 200 {object} services.UpsertResult "Updated"
// @Success 201 {object} services.UpsertResult "Created"
// @Failure 400 {object} ValidationErrorResponse "Missing EmpresaID or ObligacionID"
// @Router /api/admin/cumplimiento [post]
func upsertCompliance(c *gin.Context) {
	var req dto.ComplianceUpsert
	if !bindJSON(c, &req) {
		return
	}
	result, err := complianceSrv.Upsert(c.Request.Context(), req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	status := http.StatusCreated
	if result.Updated {
		status = http.StatusOK
	}
	utils.JSONResponse(c, status, result)
}

// updateCompliance partially updates a compliance record
// @Summary Update compliance record
// @Tags Compliance
// @Accept json
// @Produce json
// @Param id path int true "Compliance record ID"
// @Param record body dto.ComplianceUpdate true "Fields to change"
// @Success 200 {object} models.ComplianceRecord
// @Failure 400 {object} ErrorResponse "No fields given"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Router /api/admin/cumplimiento/{id} [put]
func updateCompliance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ComplianceUpdate
	if !bindJSON(c, &req) {
		return
	}
	record, err := complianceSrv.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, record)
}

// getComplianceHistory lists the history of a compliance record
// @Summary Compliance history
// @Tags Compliance
// @Produce json
// @Param id path int true "Compliance record ID"
// @Success 200 {array} models.ComplianceHistory
// @Failure 404 {object} ErrorResponse "Record not found"
// @Router /api/admin/cumplimiento/{id}/historial [get]
func getComplianceHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	history, err := complianceSrv.History(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, history)
}

// listEvidence lists the evidence of a compliance record
// @Summary List evidence
// @Tags Evidence
// @Produce json
// @Param id path int true "Compliance record ID"
// @Success 200 {array} services.EvidenceView
// @Router /api/admin/cumplimiento/{id}/evidencias [get]
func listEvidence(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	evidence, err := evidenceSrv.List(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, evidence)
}

// getEvidenceSummary summarizes the evidence of a compliance record
// @Summary Evidence summary
// @Tags Evidence
// @Produce json
// @Param id path int true "Compliance record ID"
// @Success 200 {object} services.EvidenceSummary
// @Router /api/admin/cumplimiento/{id}/evidencias/resumen [get]
func getEvidenceSummary(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := evidenceSrv.Summary(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, summary)
}

// uploadEvidence uploads an evidence file
// @Summary Upload evidence
// @Tags Evidence
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Compliance record ID"
// @Param file formData file true "Evidence file"
// @Param descripcion formData string false "Description"
// @Param fecha_vigencia formData string false "Validity date (YYYY-MM-DD)"
// @Param usuario formData string false "Uploading user"
// @Success 201 {object} services.UploadedEvidence
// @Failure 400 {object} ErrorResponse "Missing file or extension not allowed"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Router /api/admin/cumplimiento/{id}/evidencias [post]
func uploadEvidence(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	header, content, ok := formFile(c, "file")
	if !ok {
		return
	}
	uploaded, err := evidenceSrv.Upload(c.Request.Context(), id, dto.EvidenceUpload{
		FileName:      header.Filename,
		Content:       content,
		ContentType:   header.Header.Get("Content-Type"),
		Descripcion:   c.PostForm("descripcion"),
		FechaVigencia: c.PostForm("fecha_vigencia"),
		Usuario:       c.PostForm("usuario"),
		IPAddress:     c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
	})
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	logger.Infof("Uploaded evidence %d for compliance record %d", uploaded.EvidenciaID, id)
	utils.JSONResponse(c, http.StatusCreated, uploaded)
}

// getEvidenceFile serves an evidence file
// @Summary Download evidence
// @Tags Evidence
// @Produce octet-stream
// @Param id path int true "Evidence ID"
// @Param download query bool false "Serve as attachment"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse "Evidence or file not found"
// @Router /api/admin/evidencia/{id} [get]
func getEvidenceFile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	evidence, path, err := evidenceSrv.Open(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	name := evidence.NombreArchivoOriginal
	if name == "" {
		name = filepath.Base(path)
	}
	if c.Query("download") == "true" {
		c.FileAttachment(path, name)
		return
	}
	c.Header("Content-Disposition", "inline; filename=\""+name+"\"")
	c.File(path)
}

// updateEvidence updates evidence metadata
// @Summary Update evidence
// @Tags Evidence
// @Accept json
// @Produce json
// @Param id path int true "Evidence ID"
// @Param evidence body dto.EvidenceUpdate true "descripcion and/or fecha_vigencia"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "No fields given"
// @Failure 404 {object} ErrorResponse "Evidence not found"
// @Router /api/admin/evidencia/{id} [put]
func updateEvidence(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.EvidenceUpdate
	if !bindJSON(c, &req) {
		return
	}
	if err := evidenceSrv.Update(c.Request.Context(), id, req); err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "Evidencia actualizada"})
}

// commentEvidence replaces the evidence comment
// @Summary Comment evidence
// @Tags Evidence
// @Accept json
// @Produce json
// @Param id path int true "Evidence ID"
// @Param comment body dto.EvidenceComment true "Comment"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Evidence not found"
// @Router /api/admin/evidencia/{id}/comentario [put]
func commentEvidence(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.EvidenceComment
	if !bindJSON(c, &req) {
		return
	}
	if err := evidenceSrv.Comment(c.Request.Context(), id, req.Comentario); err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "Comentario actualizado"})
}

// deleteEvidence removes an evidence file and its row
// @Summary Delete evidence
// @Tags Evidence
// @Produce json
// @Param id path int true "Evidence ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Evidence not found"
// @Router /api/admin/evidencia/{id} [delete]
func deleteEvidence(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := evidenceSrv.Delete(c.Request.Context(), id); err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "Evidencia eliminada"})
}

// RegisterComplianceRoutes registers the obligation, compliance and evidence endpoints.
func RegisterComplianceRoutes(rg *gin.RouterGroup) {
	if obligationSrv == nil {
		obligationSrv = services.NewObligationService()
	}
	if complianceSrv == nil {
		complianceSrv = services.NewComplianceService()
	}
	if evidenceSrv == nil {
		evidenceSrv = services.NewEvidenceService()
	}

	rg.GET("/obligaciones", listObligations)
	rg.GET("/empresas/:id/cumplimientos", listCompanyCompliance)
	rg.POST("/empresas/:id/cumplimientos", createCompanyCompliance)

	cumplimiento := rg.Group("/cumplimiento")
	{
		cumplimiento.POST("", upsertCompliance)
		cumplimiento.PUT("/:id", updateCompliance)
		cumplimiento.GET("/:id/historial", getComplianceHistory)
		cumplimiento.GET("/:id/evidencias", listEvidence)
		cumplimiento.GET("/:id/evidencias/resumen", getEvidenceSummary)
		cumplimiento.POST("/:id/evidencias", uploadEvidence)
	}

	evidencia := rg.Group("/evidencia")
	{
		evidencia.GET("/:id", getEvidenceFile)
		evidencia.PUT("/:id", updateEvidence)
		evidencia.PUT("/:id/comentario", commentEvidence)
		evidencia.DELETE("/:id", deleteEvidence)
	}
}
