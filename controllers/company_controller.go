package controllers

import (
	"net/http"

	"agentedigitalapi/bootstrap"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/services"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/services/indicator"
	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
)

var (
	companySrv   services.CompanyService
	indicatorSrv indicator.Service
)

// SetCompanyService injects the company service instance.
func SetCompanyService(s services.CompanyService) {
	companySrv = s
}

// SetIndicatorService injects the indicator service instance.
func SetIndicatorService(s indicator.Service) {
	indicatorSrv = s
}

// listCompanies lists all companies
// @Summary List companies
// @Description Lists companies with the business name of their tenant.
// @Tags Companies
// @Produce json
// @Success 200 {array} repository.CompanyWithTenant
// @Router /api/admin/empresas [get]
func listCompanies(c *gin.Context) {
	companies, err := companySrv.List(c.Request.Context())
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, companies)
}

// getCompany returns one company
// @Summary Get company
// @Tags Companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} models.Company
// @Failure 404 {object} ErrorResponse "Company not found"
// @Router /api/admin/empresas/{id} [get]
func getCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	company, err := companySrv.Get(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, company)
}

// getDashboardStats returns the compliance dashboard of a company
// @Summary Company dashboard statistics
// @Description Compliance counts scaled to the base obligation count, risk level, trend, upcoming deadlines and incident statistics.
// @Tags Companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} services.DashboardStats
// @Failure 404 {object} ErrorResponse "Company not found"
// @Router /api/admin/empresas/{id}/dashboard-stats [get]
func getDashboardStats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := companySrv.DashboardStats(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, stats)
}

// getComplianceReport returns the compliance report of a company
// @Summary Company compliance report
// @Tags Companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} services.ComplianceReport
// @Failure 404 {object} ErrorResponse "Company not found"
// @Router /api/admin/empresas/{id}/informe-cumplimiento [get]
func getComplianceReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := companySrv.ComplianceReport(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, report)
}

// getCompanyPlan returns the obligation plan of a company
// @Summary Company obligation plan
// @Tags Companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {array} services.PlanItem
// @Failure 404 {object} ErrorResponse "Company not found"
// @Router /api/admin/empresas/{id}/acompanamiento [get]
func getCompanyPlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	plan, err := companySrv.Plan(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, plan)
}

// listCompanyIncidents lists the incidents of a company
// @Summary Company incidents
// @Tags Companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {array} services.IncidentListItem
// @Failure 404 {object} ErrorResponse "Company not found"
// @Router /api/admin/empresas/{id}/incidentes [get]
func listCompanyIncidents(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	incidents, err := companySrv.Incidents(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, incidents)
}

// quickCreateIncident opens an incident with a title only
// @Summary Quick incident creation
// @Tags Companies
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param incident body dto.IncidentQuickCreate true "Incident data"
// @Success 201 {object} models.Incident
// @Failure 400 {object} ValidationErrorResponse "Missing title"
// @Failure 404 {object} ErrorResponse "Company not found"
// @Router /api/admin/empresas/{id}/incidentes [post]
func quickCreateIncident(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.IncidentQuickCreate
	if !bindJSON(c, &req) {
		return
	}
	incident, err := incidentSrv.QuickCreate(c.Request.Context(), id, req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, incident)
}

// getCompanyIndicators evaluates the compliance indicators of a company
// @Summary Company compliance indicators
// @Description Runs the indicator catalog against an in-memory copy of the company's compliance and incident rows.
// @Tags Companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {array} indicator.Result
// @Failure 404 {object} ErrorResponse "Company not found"
// @Router /api/admin/empresas/{id}/indicadores [get]
func getCompanyIndicators(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	results, err := indicatorSrv.Evaluate(c.Request.Context(), id)
	if err != nil {
		logger.Errorf("Failed to evaluate indicators for company %d: %v", id, err)
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, results)
}

// RegisterCompanyRoutes registers HTTP endpoints for company views.
func RegisterCompanyRoutes(rg *gin.RouterGroup) {
	if companySrv == nil {
		companySrv = services.NewCompanyService()
	}
	if indicatorSrv == nil {
		indicatorSrv = indicator.NewService(bootstrap.Indicators)
	}
	if incidentSrv == nil {
		incidentSrv = services.NewIncidentService()
	}
	empresas := rg.Group("/empresas")
	{
		empresas.GET("", listCompanies)
		empresas.GET("/:id", getCompany)
		empresas.GET("/:id/dashboard-stats", getDashboardStats)
		empresas.GET("/:id/informe-cumplimiento", getComplianceReport)
		empresas.GET("/:id/acompanamiento", getCompanyPlan)
		empresas.GET("/:id/incidentes", listCompanyIncidents)
		empresas.POST("/:id/incidentes", quickCreateIncident)
		empresas.GET("/:id/indicadores", getCompanyIndicators)
	}
}
