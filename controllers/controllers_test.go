package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agentedigitalapi/models"
	"agentedigitalapi/repository"
	"agentedigitalapi/services"
	"agentedigitalapi/services/deadline"
	"agentedigitalapi/services/indicator"
	"agentedigitalapi/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRouter installs fresh services over a temp database and returns a
// router with every route registered.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)

	SetTenantService(services.NewTenantService())
	SetCompanyService(services.NewCompanyService())
	SetIndicatorService(indicator.NewService(func() []models.Indicator {
		return []models.Indicator{{
			Codigo:      "INC",
			Nombre:      "Incidentes",
			SQL:         "SELECT COUNT(*) AS valor FROM incidentes WHERE empresa_id = ${empresa_id}",
			Umbral:      0,
			Comparacion: models.ComparacionMenorIgual,
		}}
	}))
	SetObligationService(services.NewObligationService())
	SetComplianceService(services.NewComplianceService())
	SetEvidenceService(services.NewEvidenceService())
	SetIncidentService(services.NewIncidentService())
	SetAnciService(services.NewAnciService())
	SetCascadeService(services.NewCascadeService())
	SetTaxonomyService(services.NewTaxonomyService())
	SetSectionService(services.NewSectionService())
	SetSnapshotService(services.NewSnapshotService())
	SetReportService(services.NewReportService())
	SetDeadlineMonitor(deadline.NewMonitor(repository.NewIncidentRepository(), repository.NewReportRepository(), time.Minute))
	SetHealthRepository(repository.NewBaseRepository())

	router := gin.New()
	api := router.Group("/api")
	admin := api.Group("/admin")
	RegisterTenantRoutes(admin)
	RegisterCompanyRoutes(admin)
	RegisterComplianceRoutes(admin)
	RegisterIncidentAdminRoutes(admin)
	RegisterTaxonomyRoutes(admin)
	RegisterIncidentRoutes(api)
	RegisterDynamicIncidentRoutes(api)
	RegisterSnapshotRoutes(api)
	RegisterReportRoutes(api)
	RegisterHealthRoutes(api)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body HealthResponse
	decode(t, w, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Database)
}

func TestTenantRoutes(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/admin/inquilinos", map[string]string{"razon_social": "Holding Andes"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var verr ValidationErrorResponse
	decode(t, w, &verr)
	assert.NotEmpty(t, verr.Detalles)

	w = doJSON(t, router, http.MethodPost, "/api/admin/inquilinos", map[string]string{"razon_social": "Holding Andes", "rut": "76.555.444-3"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created CreatedResponse
	decode(t, w, &created)
	require.NotZero(t, created.ID)

	w = doJSON(t, router, http.MethodGet, "/api/admin/inquilinos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tenants []services.TenantView
	decode(t, w, &tenants)
	require.Len(t, tenants, 1)
	assert.Equal(t, "Activo", tenants[0].EstadoActivo)

	w = doJSON(t, router, http.MethodGet, "/api/admin/inquilinos/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/admin/inquilinos/undefined/empresas", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/admin/inquilinos/1/empresas", map[string]string{
		"razon_social": "Eléctrica Sur",
		"rut":          "76.123.456-7",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/admin/inquilinos/1/empresas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var companies []models.Company
	decode(t, w, &companies)
	require.Len(t, companies, 1)
	assert.Equal(t, models.TipoEmpresaPSE, companies[0].TipoEmpresa)
}

func TestCompanyIncidentsAndIndicators(t *testing.T) {
	router, db := setupRouter(t)
	testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)

	w := doJSON(t, router, http.MethodPost, "/api/admin/empresas/1/incidentes", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/admin/empresas/1/incidentes", map[string]string{"titulo": "Caída del portal"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/admin/empresas/1/incidentes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var incidents []services.IncidentListItem
	decode(t, w, &incidents)
	require.Len(t, incidents, 1)
	assert.Equal(t, "Caída del portal", incidents[0].Titulo)
	assert.NotEmpty(t, incidents[0].IDVisible)

	w = doJSON(t, router, http.MethodGet, "/api/admin/empresas/1/indicadores", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results []indicator.Result
	decode(t, w, &results)
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Valor)
	assert.False(t, results[0].Cumple)

	w = doJSON(t, router, http.MethodGet, "/api/admin/empresas/77/indicadores", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComplianceUpsertRoutes(t *testing.T) {
	router, db := setupRouter(t)
	testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	testutil.CreateObligations(t, db, 1, 2, "Ambos")

	w := doJSON(t, router, http.MethodPost, "/api/admin/cumplimiento", map[string]interface{}{"EmpresaID": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := map[string]interface{}{"EmpresaID": 1, "ObligacionID": 1, "Estado": models.EstadoEnProceso, "PorcentajeAvance": 40}
	w = doJSON(t, router, http.MethodPost, "/api/admin/cumplimiento", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var first services.UpsertResult
	decode(t, w, &first)
	assert.False(t, first.Updated)

	body["PorcentajeAvance"] = 80
	w = doJSON(t, router, http.MethodPost, "/api/admin/cumplimiento", body)
	require.Equal(t, http.StatusOK, w.Code)
	var second services.UpsertResult
	decode(t, w, &second)
	assert.True(t, second.Updated)
	assert.Equal(t, first.CumplimientoID, second.CumplimientoID)

	w = doJSON(t, router, http.MethodPost, "/api/admin/empresas/1/cumplimientos", map[string]interface{}{"ObligacionID": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/admin/cumplimiento/999", map[string]interface{}{"Estado": models.EstadoImplementado})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/admin/obligaciones?tipo_empresa=PSE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var obligations []models.Obligation
	decode(t, w, &obligations)
	assert.Len(t, obligations, 2)
}

func TestEvidenceUpload(t *testing.T) {
	router, db := setupRouter(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	testutil.CreateObligations(t, db, 1, 1, "Ambos")
	record := models.ComplianceRecord{EmpresaID: company.EmpresaID, ObligacionID: 1, Estado: models.EstadoPendiente}
	require.NoError(t, db.Create(&record).Error)

	upload := func(field, name string, content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if field != "" {
			fw, err := mw.CreateFormFile(field, name)
			require.NoError(t, err)
			_, err = fw.Write(content)
			require.NoError(t, err)
		}
		require.NoError(t, mw.WriteField("descripcion", "Política aprobada"))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/admin/cumplimiento/1/evidencias", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusBadRequest, upload("", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, upload("file", "vacio.pdf", nil).Code)
	assert.Equal(t, http.StatusBadRequest, upload("file", "script.exe", []byte("MZ")).Code)

	w := upload("file", "politica.pdf", []byte("%PDF-1.4 contenido"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var uploaded services.UploadedEvidence
	decode(t, w, &uploaded)
	assert.NotZero(t, uploaded.EvidenciaID)

	w = doJSON(t, router, http.MethodGet, "/api/admin/evidencia/1?download=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "%PDF-1.4 contenido", w.Body.String())

	w = doJSON(t, router, http.MethodDelete, "/api/admin/evidencia/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/admin/evidencia/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnciValidationRoute(t *testing.T) {
	router, db := setupRouter(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	testutil.CreateIncident(t, db, company.EmpresaID, "Phishing")

	w := doJSON(t, router, http.MethodGet, "/api/admin/incidentes/1/validar-para-anci", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var validation services.AnciValidation
	decode(t, w, &validation)
	assert.False(t, validation.Valido)
	assert.NotEmpty(t, validation.CamposFaltantes)

	w = doJSON(t, router, http.MethodPost, "/api/admin/incidentes/1/transformar-anci", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/admin/incidentes/404/validar-para-anci", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaxonomyAssignConflict(t *testing.T) {
	router, db := setupRouter(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	testutil.CreateIncident(t, db, company.EmpresaID, "Fraude")
	require.NoError(t, db.Create(&models.Taxonomy{
		IdIncidente:              "INC_PSE_PAGO_FRAUD",
		CategoriaDelIncidente:    "Transacciones fraudulentas",
		SubcategoriaDelIncidente: "Pagos no autorizados",
		TipoEmpresa:              "PSE",
		Activo:                   true,
	}).Error)

	body := map[string]string{"id_taxonomia": "INC_PSE_PAGO_FRAUD", "justificacion": "Cargos desconocidos"}
	w := doJSON(t, router, http.MethodPost, "/api/admin/incidentes/1/taxonomias", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = doJSON(t, router, http.MethodPost, "/api/admin/incidentes/1/taxonomias", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/admin/taxonomias?tipo_empresa=PSE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []services.TaxonomyItem
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Transacciones fraudulentas - Pagos no autorizados", items[0].TextoCompleto)

	w = doJSON(t, router, http.MethodDelete, "/api/admin/incidentes/1/taxonomias/INC_PSE_PAGO_FRAUD", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodDelete, "/api/admin/incidentes/1/taxonomias/INC_PSE_PAGO_FRAUD", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDynamicSectionRoutes(t *testing.T) {
	router, db := setupRouter(t)
	testutil.CreateCompany(t, db, 0, "Eléctrica Sur", models.TipoEmpresaOIV)
	require.NoError(t, db.Create(&models.SectionConfig{
		SeccionID: 1, CodigoSeccion: "SEC_1", TipoSeccion: models.TipoSeccionFija, NumeroOrden: 1,
		Titulo: "Identificación", CamposJSON: `["titulo"]`, Activo: true,
		MaxComentarios: 6, MaxArchivos: 10, MaxSizeMB: 10,
	}).Error)

	w := doJSON(t, router, http.MethodGet, "/api/incidente-dinamico/secciones-empresa/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sections []models.SectionConfig
	decode(t, w, &sections)
	assert.Len(t, sections, 1)

	w = doJSON(t, router, http.MethodPost, "/api/incidente-dinamico/crear", map[string]interface{}{"empresa_id": 1, "titulo": "Intrusión SCADA"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/incidente-dinamico/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/incidente-dinamico/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted services.DeletionResult
	decode(t, w, &deleted)
	assert.Equal(t, uint(1), deleted.IncidenteID)

	w = doJSON(t, router, http.MethodGet, "/api/incidente-dinamico/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportAndDeadlineRoutes(t *testing.T) {
	router, db := setupRouter(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	testutil.CreateIncident(t, db, company.EmpresaID, "Ransomware")

	w := doJSON(t, router, http.MethodPost, "/api/informes-anci/generar/1", map[string]string{"tipo": "borrador"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/informes-anci/generar/1", map[string]string{"tipo": "preliminar"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var report services.GeneratedReport
	decode(t, w, &report)
	assert.Equal(t, 1, report.Version)

	w = doJSON(t, router, http.MethodGet, "/api/informes-anci/descargar/1/"+report.NombreArchivo, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/informes-anci/descargar/1/otro.json", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/informes-anci/historial/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reports []models.AnciReport
	decode(t, w, &reports)
	assert.Len(t, reports, 1)

	w = doJSON(t, router, http.MethodGet, "/api/informes-anci/plazos?page=0&page_size=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page deadline.PaginatedDeadlines
	decode(t, w, &page)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 0, page.Total)
}

func TestSnapshotRoutes(t *testing.T) {
	router, db := setupRouter(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	testutil.CreateIncident(t, db, company.EmpresaID, "Phishing")

	w := doJSON(t, router, http.MethodGet, "/api/incidente/clonar/1/exportar", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/incidente/clonar/1/fotografia", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/incidente/clonar/1/historial", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var files []services.SnapshotFile
	decode(t, w, &files)
	assert.NotEmpty(t, files)

	w = doJSON(t, router, http.MethodGet, "/api/incidente/clonar/1/exportar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/gzip", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x1f, 0x8b}, w.Body.Bytes()[:2])

	w = doJSON(t, router, http.MethodGet, "/api/incidente/clonar/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
