package controllers

import (
	"net/http"
	"strconv"

	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/services"
	"agentedigitalapi/services/deadline"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
)

var (
	reportSrv       services.ReportService
	deadlineMonitor *deadline.Monitor
)

// SetReportService injects the ANCI report service.
func SetReportService(s services.ReportService) {
	reportSrv = s
}

// SetDeadlineMonitor injects the deadline monitor used by the plazos endpoint.
func SetDeadlineMonitor(m *deadline.Monitor) {
	deadlineMonitor = m
}

// generateReport writes an ANCI report document
// @Summary Generate ANCI report
// @Tags ANCI
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param report body dto.ReportGenerate true "Report type: preliminar, completo or final"
// @Success 201 {object} services.GeneratedReport
// @Failure 400 {object} ErrorResponse "Invalid type"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/informes-anci/generar/{id} [post]
func generateReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReportGenerate
	if !bindJSON(c, &req) {
		return
	}
	report, err := reportSrv.Generate(c.Request.Context(), id, req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, report)
}

// downloadReport streams a generated report
// @Summary Download ANCI report
// @Tags ANCI
// @Produce octet-stream
// @Param id path int true "Incident ID"
// @Param nombre path string true "Report file name"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse "Invalid file name"
// @Failure 404 {object} ErrorResponse "Report not found"
// @Router /api/informes-anci/descargar/{id}/{nombre} [get]
func downloadReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	name := c.Param("nombre")
	path, err := reportSrv.FilePath(c.Request.Context(), id, name)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	c.FileAttachment(path, name)
}

// getReportHistory lists the reports of an incident
// @Summary ANCI report history
// @Tags ANCI
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {array} models.AnciReport
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/informes-anci/historial/{id} [get]
func getReportHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reports, err := reportSrv.History(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, reports)
}

// getDeadlines returns the ANCI incidents with their report countdown
// @Summary ANCI deadlines
// @Description Paginated ANCI incidents with preliminar (24h), completo (72h) and final (30 days) deadlines.
// @Tags ANCI
// @Produce json
// @Param empresa_id query int false "Company ID"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 10)"
// @Success 200 {object} deadline.PaginatedDeadlines
// @Router /api/informes-anci/plazos [get]
func getDeadlines(c *gin.Context) {
	empresaID, _ := strconv.ParseUint(c.Query("empresa_id"), 10, 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	if err := deadlineMonitor.Refresh(c.Request.Context()); err != nil {
		logger.Warnf("Serving cached deadlines, refresh failed: %v", err)
	}
	utils.JSONResponse(c, http.StatusOK, deadlineMonitor.Paginated(uint(empresaID), page, pageSize))
}

// RegisterReportRoutes registers the ANCI report and deadline endpoints under /api.
func RegisterReportRoutes(rg *gin.RouterGroup) {
	if reportSrv == nil {
		reportSrv = services.NewReportService()
	}
	if deadlineMonitor == nil {
		deadlineMonitor = deadline.GetMonitor()
	}
	informes := rg.Group("/informes-anci")
	{
		informes.POST("/generar/:id", generateReport)
		informes.GET("/descargar/:id/:nombre", downloadReport)
		informes.GET("/historial/:id", getReportHistory)
		informes.GET("/plazos", getDeadlines)
	}
}
