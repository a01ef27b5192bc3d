package controllers

import (
	"net/http"

	"agentedigitalapi/services"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
)

var taxonomySrv services.TaxonomyService

// SetTaxonomyService injects the taxonomy service.
func SetTaxonomyService(s services.TaxonomyService) {
	taxonomySrv = s
}

// listTaxonomies lists the active taxonomies of a company type
// @Summary List taxonomies
// @Tags Taxonomies
// @Produce json
// @Param tipo_empresa query string false "OIV, PSE or AMBAS"
// @Success 200 {array} services.TaxonomyItem
// @Router /api/admin/taxonomias [get]
func listTaxonomies(c *gin.Context) {
	items, err := taxonomySrv.List(c.Request.Context(), c.Query("tipo_empresa"))
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, items)
}

// getTaxonomyTree groups the taxonomies by category
// @Summary Taxonomy hierarchy
// @Tags Taxonomies
// @Produce json
// @Param tipo_empresa query string false "OIV, PSE or AMBAS"
// @Success 200 {object} services.TaxonomyTree
// @Router /api/admin/taxonomias/jerarquica [get]
func getTaxonomyTree(c *gin.Context) {
	tree, err := taxonomySrv.Tree(c.Request.Context(), c.Query("tipo_empresa"))
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, tree)
}

// listIncidentTaxonomies lists the taxonomies of an incident
// @Summary Incident taxonomies
// @Tags Taxonomies
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {array} services.TaxonomyAssignment
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/admin/incidentes/{id}/taxonomias [get]
func listIncidentTaxonomies(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := taxonomySrv.IncidentTaxonomies(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, items)
}

// assignTaxonomy assigns a taxonomy to an incident
// @Summary Assign taxonomy
// @Tags Taxonomies
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param taxonomy body dto.TaxonomyAssign true "Taxonomy and justification"
// @Success 201 {object} models.IncidentTaxonomy
// @Failure 404 {object} ErrorResponse "Incident or taxonomy not found"
// @Failure 409 {object} ErrorResponse "Already assigned"
// @Router /api/admin/incidentes/{id}/taxonomias [post]
func assignTaxonomy(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.TaxonomyAssign
	if !bindJSON(c, &req) {
		return
	}
	row, err := taxonomySrv.Assign(c.Request.Context(), id, req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, row)
}

// removeTaxonomy removes a taxonomy from an incident
// @Summary Remove taxonomy
// @Tags Taxonomies
// @Produce json
// @Param id path int true "Incident ID"
// @Param taxId path string true "Taxonomy ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Assignment not found"
// @Router /api/admin/incidentes/{id}/taxonomias/{taxId} [delete]
func removeTaxonomy(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := taxonomySrv.Remove(c.Request.Context(), id, c.Param("taxId")); err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "Taxonomía eliminada del incidente"})
}

// commentTaxonomy adds a comment to an assigned taxonomy
// @Summary Comment taxonomy
// @Tags Taxonomies
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param taxId path string true "Taxonomy ID"
// @Param comment body dto.TaxonomyCommentCreate true "Comment"
// @Success 201 {object} models.TaxonomyComment
// @Failure 404 {object} ErrorResponse "Assignment not found"
// @Router /api/admin/incidentes/{id}/taxonomias/{taxId}/comentarios [post]
func commentTaxonomy(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.TaxonomyCommentCreate
	if !bindJSON(c, &req) {
		return
	}
	comment, err := taxonomySrv.Comment(c.Request.Context(), id, c.Param("taxId"), req)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, comment)
}

// RegisterTaxonomyRoutes registers the taxonomy catalog and assignment endpoints under /api/admin.
func RegisterTaxonomyRoutes(rg *gin.RouterGroup) {
	if taxonomySrv == nil {
		taxonomySrv = services.NewTaxonomyService()
	}
	rg.GET("/taxonomias", listTaxonomies)
	rg.GET("/taxonomias/jerarquica", getTaxonomyTree)

	incidentes := rg.Group("/incidentes/:id/taxonomias")
	{
		incidentes.GET("", listIncidentTaxonomies)
		incidentes.POST("", assignTaxonomy)
		incidentes.DELETE("/:taxId", removeTaxonomy)
		incidentes.POST("/:taxId/comentarios", commentTaxonomy)
	}
}
