package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"agentedigitalapi/models"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/testutil"
	"agentedigitalapi/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func completeIncident(t *testing.T, db *gorm.DB, companyID uint) models.Incident {
	t.Helper()
	incident := testutil.CreateIncident(t, db, companyID, "Ransomware en ERP")
	require.NoError(t, db.Model(&models.Incident{}).Where("IncidenteID = ?", incident.IncidenteID).Updates(map[string]interface{}{
		"FechaOcurrencia":        time.Now().Add(-2 * time.Hour),
		"DescripcionInicial":     "Cifrado de servidores",
		"AnciImpactoPreliminar":  "Alto",
		"SistemasAfectados":      "ERP",
		"ServiciosInterrumpidos": "Facturación",
		"OrigenIncidente":        "Externo",
		"AnciTipoAmenaza":        "Malware",
		"ResponsableCliente":     "CISO",
		"AccionesInmediatas":     "Aislamiento de red",
		"CausaRaiz":              "Credenciales filtradas",
		"TipoRegistro":           "Nuevo",
	}).Error)
	require.NoError(t, db.Create(&models.IncidentTaxonomy{
		IncidenteID:     incident.IncidenteID,
		IdTaxonomia:     "INC_GEN_DISP_RANS",
		FechaAsignacion: time.Now(),
	}).Error)
	return incident
}

func TestBuildIDVisible(t *testing.T) {
	assert.Equal(t, "7_76123456_1_1_INCIDENTE", BuildIDVisible(7, "76.123.456-7", "1", "1", "INCIDENTE"))

	long := BuildIDVisible(12, "76.123.456-7", "1", "1", strings.Repeat("X", 80))
	assert.Len(t, long, maxIDVisibleLength)
	assert.True(t, strings.HasPrefix(long, "12_76123456_1_1_"))
}

func TestSectionState(t *testing.T) {
	estado, pct := SectionState(nil)
	assert.Equal(t, models.EstadoSeccionVacio, estado)
	assert.Equal(t, 0, pct)

	estado, pct = SectionState(map[string]interface{}{"a": "x", "b": "", "c": nil, "d": true})
	assert.Equal(t, models.EstadoSeccionParcial, estado)
	assert.Equal(t, 50, pct)

	estado, pct = SectionState(map[string]interface{}{"a": "x", "b": 3.0})
	assert.Equal(t, models.EstadoSeccionCompleto, estado)
	assert.Equal(t, 100, pct)
}

func TestSectionCommentLimit(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	incident := testutil.CreateIncident(t, db, company.EmpresaID, "Phishing")
	require.NoError(t, db.Create(&models.SectionConfig{
		SeccionID: 1, CodigoSeccion: "SEC_1", TipoSeccion: models.TipoSeccionFija, NumeroOrden: 1,
		Titulo: "Identificación", Activo: true, MaxComentarios: 2, MaxArchivos: 1, MaxSizeMB: 1,
	}).Error)

	svc := NewSectionService()
	ctx := context.Background()
	for i := 1; i <= 2; i++ {
		c, err := svc.AddComment(ctx, incident.IncidenteID, 1, dto.SectionCommentCreate{Comentario: "revisado"})
		require.NoError(t, err)
		assert.Equal(t, i, c.NumeroComentario)
	}
	_, err := svc.AddComment(ctx, incident.IncidenteID, 1, dto.SectionCommentCreate{Comentario: "otro"})
	assert.ErrorIs(t, err, utils.ErrLimitReached)

	_, err = svc.AddComment(ctx, incident.IncidenteID, 1, dto.SectionCommentCreate{Comentario: "  "})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	f, err := svc.UploadFile(ctx, incident.IncidenteID, 1, dto.SectionFileUpload{FileName: "log.txt", Content: []byte("evento")})
	require.NoError(t, err)
	assert.FileExists(t, f.RutaArchivo)
	_, err = svc.UploadFile(ctx, incident.IncidenteID, 1, dto.SectionFileUpload{FileName: "log2.txt", Content: []byte("evento")})
	assert.ErrorIs(t, err, utils.ErrLimitReached)

	saved, err := svc.Save(ctx, incident.IncidenteID, 1, dto.SectionSave{Datos: map[string]interface{}{"titulo": "Phishing", "origen": ""}})
	require.NoError(t, err)
	assert.Equal(t, models.EstadoSeccionParcial, saved.Estado)
	assert.Equal(t, 50, saved.Porcentaje)
}

func TestAnciTransform(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Eléctrica Sur", models.TipoEmpresaOIV)
	incomplete := testutil.CreateIncident(t, db, company.EmpresaID, "Sin datos")
	incident := completeIncident(t, db, company.EmpresaID)

	svc := NewAnciService()
	ctx := context.Background()

	v, err := svc.Validate(ctx, incomplete.IncidenteID)
	require.NoError(t, err)
	assert.False(t, v.Valido)
	campos := make([]string, 0, len(v.CamposFaltantes))
	for _, m := range v.CamposFaltantes {
		campos = append(campos, m.Campo)
	}
	assert.Contains(t, campos, "Taxonomias")
	assert.Contains(t, campos, "CausaRaiz")

	_, err = svc.Transform(ctx, incomplete.IncidenteID, "analista")
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)

	v, err = svc.Validate(ctx, incident.IncidenteID)
	require.NoError(t, err)
	require.True(t, v.Valido, v.CamposFaltantes)

	res, err := svc.Transform(ctx, incident.IncidenteID, "analista")
	require.NoError(t, err)
	assert.NotZero(t, res.ReporteID)

	var stored models.Incident
	require.NoError(t, db.First(&stored, incident.IncidenteID).Error)
	assert.True(t, stored.IsAnci())
	assert.NotNil(t, stored.FechaDeclaracionANCI)

	_, err = svc.Validate(ctx, incident.IncidenteID)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestReportGenerateVersions(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	incident := completeIncident(t, db, company.EmpresaID)

	svc := NewReportService()
	ctx := context.Background()

	first, err := svc.Generate(ctx, incident.IncidenteID, dto.ReportGenerate{Tipo: "Final"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, models.TipoReporteFinal, first.Tipo)

	time.Sleep(1100 * time.Millisecond)
	second, err := svc.Generate(ctx, incident.IncidenteID, dto.ReportGenerate{Tipo: "final"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	path, err := svc.FilePath(ctx, incident.IncidenteID, second.NombreArchivo)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = svc.FilePath(ctx, incident.IncidenteID, "../secreto.json")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	history, err := svc.History(ctx, incident.IncidenteID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = svc.Generate(ctx, 999, dto.ReportGenerate{Tipo: "final"})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestReportDocumentIsCumulative(t *testing.T) {
	now := time.Now()
	incident := &models.Incident{IncidenteID: 3, Titulo: "DDoS", FechaDeteccion: &now}

	pre := ReportDocument(models.TipoReportePreliminar, incident, nil, nil, nil, now)
	assert.Contains(t, pre, "descripcion")
	assert.NotContains(t, pre, "analisis_detallado")

	completo := ReportDocument(models.TipoReporteCompleto, incident, nil, nil, nil, now)
	assert.Contains(t, completo, "analisis_detallado")
	assert.NotContains(t, completo, "causa_raiz")

	final := ReportDocument(models.TipoReporteFinal, incident, nil, nil, nil, now)
	assert.Contains(t, final, "analisis_detallado")
	assert.Contains(t, final, "causa_raiz")
	assert.Nil(t, final["tiempo_resolucion_horas"])
}

func TestCascadeDelete(t *testing.T) {
	db := testutil.SetupDB(t)
	root := testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	incident := completeIncident(t, db, company.EmpresaID)
	other := testutil.CreateIncident(t, db, company.EmpresaID, "Otro")

	evidencePath := filepath.Join(root, "uploads", "empresa_1", "ev.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(evidencePath), 0755))
	require.NoError(t, os.WriteFile(evidencePath, []byte("pdf"), 0644))
	require.NoError(t, db.Create(&models.IncidentEvidence{
		IncidenteID: incident.IncidenteID, Seccion: "2", NombreArchivo: "ev.pdf", RutaArchivo: evidencePath, FechaSubida: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.IncidentEvidence{
		IncidenteID: incident.IncidenteID, Seccion: "2", NombreArchivo: "gone.pdf", RutaArchivo: filepath.Join(root, "missing.pdf"), FechaSubida: time.Now(),
	}).Error)

	svc := NewCascadeService()
	res, err := svc.Delete(context.Background(), incident.IncidenteID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Detalles.ArchivosEliminados)
	assert.Equal(t, 1, res.Detalles.ArchivosNoEncontrados)
	assert.Equal(t, int64(2), res.Detalles.TablasAfectadas["EvidenciasIncidentes"])
	assert.Equal(t, int64(1), res.Detalles.TablasAfectadas["INCIDENTE_TAXONOMIA"])
	assert.Equal(t, int64(1), res.Detalles.TablasAfectadas["Incidentes"])
	assert.NoFileExists(t, evidencePath)

	var remaining int64
	require.NoError(t, db.Model(&models.Incident{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
	require.NoError(t, db.First(&models.Incident{}, other.IncidenteID).Error)

	_, err = svc.Delete(context.Background(), incident.IncidenteID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestTenantCompanies(t *testing.T) {
	testutil.SetupDB(t)
	svc := NewTenantService()
	ctx := context.Background()

	_, err := svc.Companies(ctx, 5)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	tenant, err := svc.Create(ctx, dto.TenantCreate{RazonSocial: "Holding", RUT: "77.000.111-2"})
	require.NoError(t, err)

	company, err := svc.CreateCompany(ctx, tenant.InquilinoID, dto.CompanyCreate{RazonSocial: "Filial", RUT: "76.999.888-1", TipoEmpresa: models.TipoEmpresaAmbas})
	require.NoError(t, err)
	assert.Equal(t, models.TipoEmpresaAmbas, company.TipoEmpresa)

	companies, err := svc.Companies(ctx, tenant.InquilinoID)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Filial", companies[0].RazonSocial)
}

func TestSectionUpload_SameContentTwiceKeepsBothFiles(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	incident := testutil.CreateIncident(t, db, company.EmpresaID, "Phishing")
	require.NoError(t, db.Create(&models.SectionConfig{
		SeccionID: 2, CodigoSeccion: "SEC_2", TipoSeccion: models.TipoSeccionFija, NumeroOrden: 2,
		Titulo: "Evidencias", Activo: true, MaxComentarios: 6, MaxArchivos: 5, MaxSizeMB: 1,
	}).Error)

	svc := NewSectionService()
	upload := dto.SectionFileUpload{FileName: "captura.png", Content: []byte("mismo contenido")}
	first, err := svc.UploadFile(context.Background(), incident.IncidenteID, 2, upload)
	require.NoError(t, err)
	second, err := svc.UploadFile(context.Background(), incident.IncidenteID, 2, upload)
	require.NoError(t, err)

	assert.NotEqual(t, first.RutaArchivo, second.RutaArchivo)
	assert.FileExists(t, first.RutaArchivo)
	assert.FileExists(t, second.RutaArchivo)
	assert.Equal(t, first.NumeroArchivo+1, second.NumeroArchivo)
}
