package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"agentedigitalapi/config"
	"agentedigitalapi/models"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/testutil"
	"agentedigitalapi/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullIncidentForm(companyID uint) dto.IncidentCreate {
	return dto.IncidentCreate{
		EmpresaID:              companyID,
		TipoRegistro:           "Nuevo",
		TituloIncidente:        "Ransomware en ERP",
		FechaDeteccion:         "2026-10-01 09:30:00",
		FechaOcurrencia:        "2026-10-01 08:00:00",
		Criticidad:             models.CriticidadAlta,
		DescripcionDetallada:   "Cifrado de servidores de aplicación",
		ImpactoPreliminar:      "Alto",
		SistemasAfectados:      "ERP",
		ServiciosInterrumpidos: "Facturación",
		TipoAmenaza:            "Malware",
		OrigenAtaque:           "Externo",
		MedidasContencion:      "Aislamiento de red",
		Usuario:                "analista",
	}
}

func readSeed(t *testing.T, indice string) map[string]interface{} {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(config.Cfg.TempDir, indice+".json"))
	require.NoError(t, err)
	seed := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &seed))
	return seed
}

func TestIncidentCreate_MissingFields(t *testing.T) {
	testutil.SetupDB(t)
	testutil.SetupDirs(t)

	_, err := NewIncidentService().Create(context.Background(), dto.IncidentCreate{TituloIncidente: "Solo título"})
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	var verr *utils.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Detalles, "Campo requerido faltante: empresa_id")
	assert.Contains(t, verr.Detalles, "Campo requerido faltante: criticidad")
	assert.NotContains(t, verr.Detalles, "Campo requerido faltante: titulo_incidente")
}

func TestIncidentCreate_RegulatedCompanyNeedsTaxonomy(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)
	svc := NewIncidentService()

	for _, tipo := range []string{models.TipoEmpresaOIV, models.TipoEmpresaPSE} {
		company := testutil.CreateCompany(t, db, 0, "Empresa "+tipo, tipo)
		_, err := svc.Create(context.Background(), fullIncidentForm(company.EmpresaID))

		var verr *utils.ValidationError
		require.True(t, errors.As(err, &verr), tipo)
		assert.Equal(t, []string{"Debe seleccionar al menos una taxonomía para empresas OIV/PSE"}, verr.Detalles)
	}

	var count int64
	require.NoError(t, db.Model(&models.Incident{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err := svc.Create(context.Background(), fullIncidentForm(404))
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestIncidentCreate_StoresTaxonomiesAndSeed(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)

	form := fullIncidentForm(company.EmpresaID)
	form.TaxonomiasSeleccionada = []dto.TaxonomySelection{
		{ID: "INC_PSE_PAGO_FRAUD", Justificacion: "Cargos desconocidos", DescripcionProblema: "Transferencias"},
		{ID: " "},
	}
	created, err := NewIncidentService().Create(context.Background(), form)
	require.NoError(t, err)
	assert.True(t, created.Success)
	assert.Equal(t, "1_76123456_1_1_INCIDENTE_NUEVO", created.IndiceUnico)
	assert.FileExists(t, created.ArchivoTemporal)

	var incident models.Incident
	require.NoError(t, db.First(&incident, created.IncidenteID).Error)
	assert.Equal(t, created.IndiceUnico, incident.IDVisible)
	assert.Equal(t, "analista", incident.CreadoPor)
	assert.Equal(t, models.EstadoAbierto, incident.EstadoActual)

	var taxonomies []models.IncidentTaxonomy
	require.NoError(t, db.Where("IncidenteID = ?", incident.IncidenteID).Find(&taxonomies).Error)
	require.Len(t, taxonomies, 1)
	assert.Equal(t, "INC_PSE_PAGO_FRAUD", taxonomies[0].IdTaxonomia)
	assert.Equal(t, TaxonomyComment("Cargos desconocidos", "Transferencias"), taxonomies[0].Comentarios)

	seed := readSeed(t, created.IndiceUnico)
	assert.Equal(t, "semilla_original", seed["estado_temporal"])
	assert.Equal(t, created.IndiceUnico, seed["indice_unico"])
	assert.Equal(t, "Ransomware en ERP", seed["titulo_incidente"])
}

func TestIncidentUpdate_HistoryTaxonomiesAndFiles(t *testing.T) {
	db := testutil.SetupDB(t)
	root := testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	incident := testutil.CreateIncident(t, db, company.EmpresaID, "Phishing")

	require.NoError(t, db.Create(&models.IncidentTaxonomy{
		IncidenteID: incident.IncidenteID, IdTaxonomia: "INC_OLD", FechaAsignacion: time.Now(),
	}).Error)
	filePath := filepath.Join(root, "uploads", "seccion_2.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
	require.NoError(t, os.WriteFile(filePath, []byte("pdf"), 0644))
	file := models.SectionFile{
		IncidenteID: incident.IncidenteID, SeccionID: 2, NumeroArchivo: 1,
		NombreOriginal: "seccion_2.pdf", RutaArchivo: filePath, FechaSubida: time.Now(), Activo: true,
	}
	require.NoError(t, db.Create(&file).Error)

	datos := map[string]interface{}{
		"1.2":       "Phishing dirigido",
		"1.5":       models.CriticidadMedia,
		"4.2":       "CISO",
		"no_existe": "ignorado",
		"taxonomias_seleccionadas": []map[string]interface{}{
			{"id": "INC_NEW", "justificacion": "Correo suplantado", "descripcionProblema": "Credenciales"},
		},
		"archivos_eliminados": []map[string]interface{}{{"id": file.ArchivoID}, {"id": 999}},
	}
	res, err := NewIncidentService().Update(context.Background(), incident.IncidenteID, datos, "analista")
	require.NoError(t, err)
	assert.Equal(t, 3, res.CamposActualizados)
	assert.True(t, res.TaxonomiasActualizadas)
	assert.Equal(t, 1, res.ArchivosEliminados)

	var updated models.Incident
	require.NoError(t, db.First(&updated, incident.IncidenteID).Error)
	assert.Equal(t, "Phishing dirigido", updated.Titulo)
	assert.Equal(t, "CISO", updated.ResponsableCliente)
	assert.Equal(t, "analista", updated.ModificadoPor)
	assert.NotNil(t, updated.FechaActualizacion)

	var history []models.IncidentHistory
	require.NoError(t, db.Where("IncidenteID = ?", incident.IncidenteID).Order("CampoModificado").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, "ResponsableCliente", history[0].CampoModificado)
	assert.Equal(t, "", history[0].ValorAnterior)
	assert.Equal(t, "CISO", history[0].ValorNuevo)
	assert.Equal(t, "Titulo", history[1].CampoModificado)
	assert.Equal(t, "Phishing", history[1].ValorAnterior)
	assert.Equal(t, "Phishing dirigido", history[1].ValorNuevo)
	assert.Equal(t, "analista", history[1].Usuario)

	var taxonomies []models.IncidentTaxonomy
	require.NoError(t, db.Where("IncidenteID = ?", incident.IncidenteID).Find(&taxonomies).Error)
	require.Len(t, taxonomies, 1)
	assert.Equal(t, "INC_NEW", taxonomies[0].IdTaxonomia)
	assert.Equal(t, TaxonomyComment("Correo suplantado", "Credenciales"), taxonomies[0].Comentarios)

	var stored models.SectionFile
	require.NoError(t, db.First(&stored, file.ArchivoID).Error)
	assert.False(t, stored.Activo)
	assert.Equal(t, "analista", stored.EliminadoPor)
	assert.NotNil(t, stored.FechaEliminacion)
	assert.NoFileExists(t, filePath)
}

func TestIncidentUpdate_Errors(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	incident := testutil.CreateIncident(t, db, company.EmpresaID, "Phishing")
	svc := NewIncidentService()

	_, err := svc.Update(context.Background(), 404, map[string]interface{}{"1.2": "x"}, "")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.Update(context.Background(), incident.IncidenteID, map[string]interface{}{"1.3": "ayer"}, "")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	var history int64
	require.NoError(t, db.Model(&models.IncidentHistory{}).Count(&history).Error)
	assert.Zero(t, history)
}

func TestSaveDraft(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	svc := NewIncidentService()

	assert.ErrorIs(t, svc.SaveDraft(context.Background(), map[string]interface{}{}), utils.ErrInvalidInput)
	assert.ErrorIs(t, svc.SaveDraft(context.Background(), map[string]interface{}{"indice_unico": "../fuera"}), utils.ErrInvalidInput)
	assert.ErrorIs(t, svc.SaveDraft(context.Background(), map[string]interface{}{"indice_unico": "9_no_existe"}), utils.ErrNotFound)

	form := fullIncidentForm(company.EmpresaID)
	form.Taxonomias = []dto.TaxonomySelection{{ID: "INC_PSE_PAGO_FRAUD"}}
	created, err := svc.Create(context.Background(), form)
	require.NoError(t, err)

	require.NoError(t, svc.SaveDraft(context.Background(), map[string]interface{}{
		"indice_unico":     created.IndiceUnico,
		"titulo_incidente": "Ransomware contenido",
	}))
	seed := readSeed(t, created.IndiceUnico)
	assert.Equal(t, "semilla_base", seed["estado_temporal"])
	assert.Equal(t, "Ransomware contenido", seed["titulo_incidente"])
	assert.NotEmpty(t, seed["timestamp_actualizacion"])
}

func TestCompleteness(t *testing.T) {
	now := time.Now()
	full := &models.Incident{
		Titulo: "a", TipoRegistro: "a", FechaDeteccion: &now, FechaOcurrencia: &now,
		Criticidad: "a", AlcanceGeografico: "a", DescripcionInicial: "a",
		AnciImpactoPreliminar: "a", SistemasAfectados: "a", ServiciosInterrumpidos: "a",
		OrigenIncidente: "a", AnciTipoAmenaza: "a", ResponsableCliente: "a",
		AccionesInmediatas: "a", CausaRaiz: "a", LeccionesAprendidas: "a", PlanMejora: "a",
	}

	tests := []struct {
		name                                string
		incident                            *models.Incident
		taxonomias, evidencias, comentarios int
		want                                int
	}{
		{"empty", &models.Incident{}, 0, 0, 0, 0},
		{"blank text counts as missing", &models.Incident{Titulo: "   "}, 0, 0, 0, 0},
		{"title only", &models.Incident{Titulo: "a"}, 0, 0, 0, 4},
		{"taxonomies weigh two", &models.Incident{Titulo: "a"}, 3, 0, 0, 14},
		{"fields without extras", full, 0, 0, 0, 80},
		{"everything", full, 1, 5, 2, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Completeness(tt.incident, tt.taxonomias, tt.evidencias, tt.comentarios))
		})
	}
}

func TestIncidentStats(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	incident := testutil.CreateIncident(t, db, company.EmpresaID, "Phishing")
	svc := NewIncidentService()

	stats, err := svc.Stats(context.Background(), incident.IncidenteID)
	require.NoError(t, err)
	assert.Equal(t, IncidentStats{Completitud: 14}, *stats)

	require.NoError(t, db.Create(&models.IncidentTaxonomy{
		IncidenteID: incident.IncidenteID, IdTaxonomia: "INC_GEN_PHISH", FechaAsignacion: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.SectionFile{
		IncidenteID: incident.IncidenteID, SeccionID: 2, NumeroArchivo: 1, FechaSubida: time.Now(), Activo: true,
	}).Error)
	require.NoError(t, db.Create(&models.SectionFile{
		IncidenteID: incident.IncidenteID, SeccionID: 2, NumeroArchivo: 2, FechaSubida: time.Now(), Activo: false,
	}).Error)
	require.NoError(t, db.Create(&models.SectionComment{
		IncidenteID: incident.IncidenteID, SeccionID: 2, NumeroComentario: 1, Comentario: "Revisado",
		FechaCreacion: time.Now(), Activo: true,
	}).Error)

	stats, err = svc.Stats(context.Background(), incident.IncidenteID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEvidencias)
	assert.Equal(t, 1, stats.TotalComentarios)
	assert.Equal(t, 33, stats.Completitud)

	_, err = svc.Stats(context.Background(), 404)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
