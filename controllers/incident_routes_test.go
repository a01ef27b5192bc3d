package controllers

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"agentedigitalapi/config"
	"agentedigitalapi/models"
	"agentedigitalapi/services"
	"agentedigitalapi/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incidentForm(companyID uint) map[string]interface{} {
	return map[string]interface{}{
		"empresa_id":              companyID,
		"tipo_registro":           "Nuevo",
		"titulo_incidente":        "Intrusión SCADA",
		"fecha_deteccion":         "2026-10-01 09:30:00",
		"fecha_ocurrencia":        "2026-10-01 08:00:00",
		"criticidad":              models.CriticidadAlta,
		"descripcion_detallada":   "Acceso remoto no autorizado",
		"impacto_preliminar":      "Alto",
		"sistemas_afectados":      "SCADA",
		"servicios_interrumpidos": "Distribución",
		"tipo_amenaza":            "Intrusión",
		"origen_ataque":           "Externo",
		"medidas_contencion":      "Corte de VPN",
		"usuario":                 "analista",
	}
}

func TestIncidentFormRoutes(t *testing.T) {
	router, db := setupRouter(t)
	company := testutil.CreateCompany(t, db, 0, "Eléctrica Sur", models.TipoEmpresaOIV)

	w := doJSON(t, router, http.MethodPost, "/api/incidentes/crear", map[string]interface{}{"empresa_id": company.EmpresaID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var verr ValidationErrorResponse
	decode(t, w, &verr)
	assert.Contains(t, verr.Detalles, "Campo requerido faltante: titulo_incidente")
	assert.Contains(t, verr.Detalles, "Debe seleccionar al menos una taxonomía para empresas OIV/PSE")

	form := incidentForm(company.EmpresaID)
	w = doJSON(t, router, http.MethodPost, "/api/incidentes/crear", form)
	require.Equal(t, http.StatusBadRequest, w.Code)
	verr = ValidationErrorResponse{}
	decode(t, w, &verr)
	assert.Equal(t, []string{"Debe seleccionar al menos una taxonomía para empresas OIV/PSE"}, verr.Detalles)

	form["taxonomias_seleccionadas"] = []map[string]string{
		{"id": "INC_OIV_SCADA", "justificacion": "Control remoto", "descripcionProblema": "Acceso HMI"},
	}
	w = doJSON(t, router, http.MethodPost, "/api/incidentes/crear", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created services.IncidentCreated
	decode(t, w, &created)
	assert.Equal(t, uint(1), created.IncidenteID)
	assert.NotEmpty(t, created.IndiceUnico)
	assert.FileExists(t, filepath.Join(config.Cfg.TempDir, created.IndiceUnico+".json"))

	w = doJSON(t, router, http.MethodGet, "/api/admin/incidentes/1/estadisticas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats services.IncidentStats
	decode(t, w, &stats)
	assert.Equal(t, 66, stats.Completitud)

	w = doJSON(t, router, http.MethodPut, "/api/incidentes/1/actualizar", map[string]interface{}{
		"1.2":     "Intrusión SCADA contenida",
		"4.2":     "Jefe de turno",
		"usuario": "supervisor",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated services.IncidentUpdated
	decode(t, w, &updated)
	assert.Equal(t, 2, updated.CamposActualizados)
	assert.False(t, updated.TaxonomiasActualizadas)

	var history []models.IncidentHistory
	require.NoError(t, db.Where("IncidenteID = ?", 1).Find(&history).Error)
	require.Len(t, history, 2)
	for _, h := range history {
		assert.Equal(t, "supervisor", h.Usuario)
	}

	w = doJSON(t, router, http.MethodGet, "/api/admin/incidentes/1/estadisticas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &stats)
	assert.Equal(t, 71, stats.Completitud)

	w = doJSON(t, router, http.MethodPut, "/api/incidentes/99/actualizar", map[string]interface{}{"1.2": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/admin/incidentes/99/estadisticas", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIncidentDraftRoute(t *testing.T) {
	router, db := setupRouter(t)
	company := testutil.CreateCompany(t, db, 0, "Eléctrica Sur", models.TipoEmpresaOIV)

	w := doJSON(t, router, http.MethodPost, "/api/incidentes/borrador", map[string]interface{}{"titulo_incidente": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/incidentes/borrador", map[string]interface{}{"indice_unico": "7_76123456_1_1_INCIDENTE_NUEVO"})
	require.Equal(t, http.StatusNotFound, w.Code)
	var errResp ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, "Archivo temporal no encontrado", errResp.Error)

	form := incidentForm(company.EmpresaID)
	form["taxonomias"] = []map[string]string{{"id": "INC_OIV_SCADA"}}
	w = doJSON(t, router, http.MethodPost, "/api/incidentes/crear", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created services.IncidentCreated
	decode(t, w, &created)

	w = doJSON(t, router, http.MethodPost, "/api/incidentes/borrador", map[string]interface{}{
		"indice_unico":     created.IndiceUnico,
		"titulo_incidente": "Intrusión SCADA (borrador)",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCompanyReportRoutes(t *testing.T) {
	router, db := setupRouter(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	testutil.CreateObligations(t, db, 1, 3, "Ambos")
	testutil.CreateObligations(t, db, 4, 1, "OIV")
	testutil.CreateObligations(t, db, 5, 1, "PSE")
	testutil.CreateIncident(t, db, company.EmpresaID, "Phishing")

	due := time.Now().Add(10 * 24 * time.Hour)
	for _, r := range []models.ComplianceRecord{
		{EmpresaID: company.EmpresaID, ObligacionID: 1, Estado: models.EstadoImplementado, PorcentajeAvance: 100},
		{EmpresaID: company.EmpresaID, ObligacionID: 2, Estado: models.EstadoImplementado, PorcentajeAvance: 100},
		{EmpresaID: company.EmpresaID, ObligacionID: 3, Estado: models.EstadoEnProceso, PorcentajeAvance: 50, FechaTermino: &due, Responsable: "CISO"},
	} {
		require.NoError(t, db.Create(&r).Error)
	}

	w := doJSON(t, router, http.MethodGet, "/api/admin/empresas/1/dashboard-stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dash services.DashboardStats
	decode(t, w, &dash)
	assert.Equal(t, 14, dash.Total)
	assert.Equal(t, 2, dash.Implementadas)
	assert.Equal(t, 1, dash.EnProceso)
	assert.Equal(t, 14, dash.PorcentajeCumplimiento)
	assert.Equal(t, "alto", dash.RiesgoNivel)
	assert.Equal(t, "mejora", dash.Tendencia)
	assert.Equal(t, 1, dash.Incidentes.Total)
	assert.Equal(t, 1, dash.Incidentes.CriticidadMedia)
	require.Len(t, dash.ProximasFechas, 1)
	assert.Equal(t, "Art. 03", dash.ProximasFechas[0].ArticuloNorma)
	assert.InDelta(t, 10, dash.ProximasFechas[0].DiasRestantes, 1)

	w = doJSON(t, router, http.MethodGet, "/api/admin/empresas/1/informe-cumplimiento", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report services.ComplianceReport
	decode(t, w, &report)
	assert.Equal(t, models.TipoEmpresaPSE, report.Empresa.TipoEmpresa)
	assert.Equal(t, 3, report.Estadisticas.TotalObligaciones)
	assert.Equal(t, 2, report.Estadisticas.Implementadas)
	assert.Equal(t, 1, report.Estadisticas.EnProceso)
	assert.InDelta(t, 66.67, report.Estadisticas.PorcentajeCumplimiento, 0.001)
	assert.Len(t, report.Obligaciones, 4)
	assert.NotEmpty(t, report.FechaGeneracion)

	w = doJSON(t, router, http.MethodGet, "/api/admin/empresas/1/acompanamiento", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var plan []services.PlanItem
	decode(t, w, &plan)
	require.Len(t, plan, 4)
	assert.Equal(t, "Art. 03", plan[2].ArticuloNorma)
	assert.Equal(t, models.EstadoEnProceso, plan[2].Estado)
	assert.Equal(t, 50, plan[2].PorcentajeAvance)
	assert.Equal(t, "CISO", plan[2].Responsable)
	require.NotNil(t, plan[2].FechaTermino)
	assert.Equal(t, "Art. 05", plan[3].ArticuloNorma)
	assert.Equal(t, models.EstadoPendiente, plan[3].Estado)
	assert.Nil(t, plan[3].CumplimientoID)

	for _, path := range []string{"dashboard-stats", "informe-cumplimiento", "acompanamiento"} {
		w = doJSON(t, router, http.MethodGet, "/api/admin/empresas/99/"+path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestTaxonomyTreeRoute(t *testing.T) {
	router, db := setupRouter(t)
	for _, tax := range []models.Taxonomy{
		{IdIncidente: "PSE_A1", CategoriaDelIncidente: "Fraude", SubcategoriaDelIncidente: "Pagos", TipoEmpresa: "PSE", Activo: true},
		{IdIncidente: "PSE_A2", CategoriaDelIncidente: "Fraude", SubcategoriaDelIncidente: "Tarjetas", TipoEmpresa: "PSE", Activo: true},
		{IdIncidente: "AMB_B1", CategoriaDelIncidente: "Malware", SubcategoriaDelIncidente: "Ransomware", TipoEmpresa: "AMBAS", Activo: true},
		{IdIncidente: "OIV_C1", CategoriaDelIncidente: "Sabotaje", SubcategoriaDelIncidente: "SCADA", TipoEmpresa: "OIV", Activo: true},
		{IdIncidente: "PSE_D1", CategoriaDelIncidente: "Obsoleta", SubcategoriaDelIncidente: "Retirada", TipoEmpresa: "PSE"},
	} {
		require.NoError(t, db.Create(&tax).Error)
	}

	w := doJSON(t, router, http.MethodGet, "/api/admin/taxonomias/jerarquica?tipo_empresa=pse", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tree services.TaxonomyTree
	decode(t, w, &tree)
	require.Len(t, tree.Categorias, 2)
	assert.Equal(t, "Fraude", tree.Categorias[0].Nombre)
	require.Len(t, tree.Categorias[0].Subcategorias, 2)
	assert.Equal(t, "Fraude - Pagos", tree.Categorias[0].Subcategorias[0].TextoCompleto)
	assert.Equal(t, "Malware", tree.Categorias[1].Nombre)

	w = doJSON(t, router, http.MethodGet, "/api/admin/taxonomias/jerarquica", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tree = services.TaxonomyTree{}
	decode(t, w, &tree)
	assert.Len(t, tree.Categorias, 3)

	w = doJSON(t, router, http.MethodGet, "/api/admin/taxonomias/jerarquica?tipo_empresa=XYZ", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComplianceUpdateWritesHistory(t *testing.T) {
	router, db := setupRouter(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	testutil.CreateObligations(t, db, 1, 1, "Ambos")
	record := models.ComplianceRecord{EmpresaID: company.EmpresaID, ObligacionID: 1, Estado: models.EstadoPendiente}
	require.NoError(t, db.Create(&record).Error)
	path := "/api/admin/cumplimiento/1"

	w := doJSON(t, router, http.MethodPut, path, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, path, map[string]interface{}{
		"Estado":           models.EstadoImplementado,
		"PorcentajeAvance": 100,
		"usuario":          "auditor",
		"comentario":       "Política publicada",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved models.ComplianceRecord
	decode(t, w, &saved)
	assert.Equal(t, models.EstadoImplementado, saved.Estado)
	assert.Equal(t, 100, saved.PorcentajeAvance)
	assert.NotNil(t, saved.FechaModificacion)

	w = doJSON(t, router, http.MethodPut, path, map[string]interface{}{"Responsable": "CISO"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, path+"/historial", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.ComplianceHistory
	decode(t, w, &history)
	require.Len(t, history, 1)
	assert.Equal(t, models.EstadoPendiente, history[0].EstadoAnterior)
	assert.Equal(t, models.EstadoImplementado, history[0].EstadoNuevo)
	assert.Equal(t, 0, history[0].PorcentajeAnterior)
	assert.Equal(t, 100, history[0].PorcentajeNuevo)
	assert.Equal(t, "auditor", history[0].Usuario)
	assert.Equal(t, "Política publicada", history[0].Comentario)

	w = doJSON(t, router, http.MethodGet, "/api/admin/cumplimiento/99/historial", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
