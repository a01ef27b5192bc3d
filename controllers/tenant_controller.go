package controllers

import (
	"net/http"

	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/services"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
)

var tenantSrv services.TenantService

// SetTenantService injects the tenant service instance.
func SetTenantService(s services.TenantService) {
	tenantSrv = s
}

// listTenants lists all tenants
// @Summary List tenants
// @Description Lists tenants ordered by business name. EstadoActivo is rendered as Activo/Inactivo.
// @Tags Tenants
// @Produce json
// @Success 200 {array} services.TenantView
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/admin/inquilinos [get]
func listTenants(c *gin.Context) {
	tenants, err := tenantSrv.List(c.Request.Context())
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, tenants)
}

// getTenant returns one tenant
// @Summary Get tenant
// @Tags Tenants
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {object} services.TenantView
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Tenant not found"
// @Router /api/admin/inquilinos/{id} [get]
func getTenant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tenant, err := tenantSrv.Get(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, tenant)
}

// createTenant creates a tenant
// @Summary Create tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Param tenant body dto.TenantCreate true "Tenant data"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ValidationErrorResponse "Missing required fields"
// @Router /api/admin/inquilinos [post]
func createTenant(c *gin.Context) {
	var req dto.TenantCreate
	if !bindJSON(c, &req) {
		return
	}
	tenant, err := tenantSrv.Create(c.Request.Context(), req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	logger.Infof("Created tenant %d (%s)", tenant.InquilinoID, tenant.RazonSocial)
	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message": "Inquilino creado exitosamente",
		"id":      tenant.InquilinoID,
	})
}

// listTenantCompanies lists the companies of a tenant
// @Summary List tenant companies
// @Tags Tenants
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {array} models.Company
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Tenant not found"
// @Router /api/admin/inquilinos/{id}/empresas [get]
func listTenantCompanies(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	companies, err := tenantSrv.Companies(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, companies)
}

// createTenantCompany creates a company under a tenant
// @Summary Create company
// @Description Creates a company under the tenant. tipo_empresa defaults to PSE.
// @Tags Tenants
// @Accept json
// @Produce json
// @Param id path int true "Tenant ID"
// @Param company body dto.CompanyCreate true "Company data"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ValidationErrorResponse "Invalid data"
// @Failure 404 {object} ErrorResponse "Tenant not found"
// @Router /api/admin/inquilinos/{id}/empresas [post]
func createTenantCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CompanyCreate
	if !bindJSON(c, &req) {
		return
	}
	company, err := tenantSrv.CreateCompany(c.Request.Context(), id, req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	logger.Infof("Created company %d (%s) under tenant %d", company.EmpresaID, company.RazonSocial, id)
	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message": "Empresa creada exitosamente",
		"id":      company.EmpresaID,
	})
}

// RegisterTenantRoutes registers HTTP endpoints for tenant management.
func RegisterTenantRoutes(rg *gin.RouterGroup) {
	if tenantSrv == nil {
		tenantSrv = services.NewTenantService()
	}
	inquilinos := rg.Group("/inquilinos")
	{
		inquilinos.GET("", listTenants)
		inquilinos.POST("", createTenant)
		inquilinos.GET("/:id", getTenant)
		inquilinos.GET("/:id/empresas", listTenantCompanies)
		inquilinos.POST("/:id/empresas", createTenantCompany)
	}
}
