package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agentedigitalapi/config"
	"agentedigitalapi/models"
	"agentedigitalapi/pkg/events"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"gorm.io/gorm"
)

// GeneratedReport is returned after writing an ANCI report document.
type GeneratedReport struct {
	Success       bool    `json:"success"`
	InformeID     uint    `json:"informe_id"`
	Tipo          string  `json:"tipo"`
	Version       int     `json:"version"`
	NombreArchivo string  `json:"nombre_archivo"`
	TamanoKB      float64 `json:"tamano_kb"`
	Mensaje       string  `json:"mensaje"`
}

// ReportService generates and serves ANCI report documents.
type ReportService interface {
	Generate(ctx context.Context, incidentID uint, req dto.ReportGenerate) (*GeneratedReport, error)

	// FilePath resolves a report file name of an incident to its stored path.
	FilePath(ctx context.Context, incidentID uint, name string) (string, error)

	History(ctx context.Context, incidentID uint) ([]models.AnciReport, error)
}

type reportService struct {
	baseRepo     repository.BaseRepository
	reportRepo   repository.ReportRepository
	incidentRepo repository.IncidentRepository
	companyRepo  repository.CompanyRepository
}

// NewReportService creates a new report service instance.
func NewReportService() ReportService {
	return &reportService{
		baseRepo:     repository.NewBaseRepository(),
		reportRepo:   repository.NewReportRepository(),
		incidentRepo: repository.NewIncidentRepository(),
		companyRepo:  repository.NewCompanyRepository(),
	}
}

// NewReportServiceWithDeps creates a service instance with injected dependencies.
func NewReportServiceWithDeps(
	baseRepo repository.BaseRepository,
	reportRepo repository.ReportRepository,
	incidentRepo repository.IncidentRepository,
	companyRepo repository.CompanyRepository,
) ReportService {
	return &reportService{baseRepo: baseRepo, reportRepo: reportRepo, incidentRepo: incidentRepo, companyRepo: companyRepo}
}

// ReportDocument builds the sections of a report of the given type. Each type
// carries the sections of the previous one.
func ReportDocument(tipo string, incident *models.Incident, company *models.Company, taxonomias []TaxonomyAssignment, evidencias []string, now time.Time) map[string]interface{} {
	empresa := map[string]interface{}{}
	if company != nil {
		empresa = map[string]interface{}{
			"razon_social": company.RazonSocial,
			"rut":          company.RUT,
			"tipo_empresa": company.TipoEmpresa,
		}
	}
	doc := map[string]interface{}{
		"tipo_informe":     tipo,
		"fecha_generacion": now.Format(time.RFC3339),
		"empresa":          empresa,
		"incidente": map[string]interface{}{
			"id":               incident.IncidenteID,
			"indice_unico":     incident.IDVisible,
			"titulo":           incident.Titulo,
			"criticidad":       incident.Criticidad,
			"estado":           incident.EstadoActual,
			"fecha_deteccion":  dateText(incident.FechaDeteccion),
			"fecha_ocurrencia": dateText(incident.FechaOcurrencia),
		},
		"descripcion":         incident.DescripcionInicial,
		"impacto_inicial":     incident.AnciImpactoPreliminar,
		"acciones_inmediatas": incident.AccionesInmediatas,
		"proximos_pasos":      incident.ProximosPasos,
	}
	if tipo == models.TipoReportePreliminar {
		return doc
	}

	tax := make([]map[string]string, 0, len(taxonomias))
	for _, t := range taxonomias {
		tax = append(tax, map[string]string{
			"id":            t.IdTaxonomia,
			"texto":         t.TextoCompleto,
			"justificacion": t.Justificacion,
		})
	}
	doc["analisis_detallado"] = map[string]interface{}{
		"tipo_amenaza":        incident.AnciTipoAmenaza,
		"agente_amenaza":      incident.AnciAgenteAmenaza,
		"vulnerabilidad":      incident.AnciVulnerabilidadExplotada,
		"datos_comprometidos": incident.AnciDatosComprometidos,
		"origen":              incident.OrigenIncidente,
	}
	doc["sistemas_afectados"] = incident.SistemasAfectados
	doc["servicios_interrumpidos"] = incident.ServiciosInterrumpidos
	doc["taxonomias"] = tax
	doc["evidencias"] = evidencias
	doc["contencion"] = incident.MedidasContencion
	if tipo == models.TipoReporteCompleto {
		return doc
	}

	doc["causa_raiz"] = incident.CausaRaiz
	doc["lecciones_aprendidas"] = incident.LeccionesAprendidas
	doc["plan_mejora"] = incident.PlanMejora
	if incident.FechaResolucion != nil && incident.FechaDeteccion != nil {
		doc["tiempo_resolucion_horas"] = int(incident.FechaResolucion.Sub(*incident.FechaDeteccion).Hours())
	} else {
		doc["tiempo_resolucion_horas"] = nil
	}
	return doc
}

func (s *reportService) evidenceNames(incidentID uint) ([]string, error) {
	var names []string
	general, err := s.incidentRepo.GetEvidence(nil, incidentID)
	if err != nil {
		return nil, err
	}
	for _, e := range general {
		names = append(names, e.NombreArchivo)
	}
	taxEvidence, err := s.incidentRepo.GetTaxonomyEvidence(nil, incidentID)
	if err != nil {
		return nil, err
	}
	for _, e := range taxEvidence {
		names = append(names, e.NombreArchivo)
	}
	return names, nil
}

func (s *reportService) Generate(ctx context.Context, incidentID uint, req dto.ReportGenerate) (*GeneratedReport, error) {
	tipo := strings.ToLower(strings.TrimSpace(req.Tipo))
	if !models.IsValidReportType(tipo) {
		return nil, utils.InvalidInputf("Tipo de informe inválido: debe ser preliminar, completo o final")
	}
	incident, err := getIncident(s.incidentRepo, nil, incidentID)
	if err != nil {
		return nil, err
	}
	var company *models.Company
	if c, err := s.companyRepo.GetByID(nil, incident.EmpresaID); err == nil {
		company = c
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get company of incident %d: %w", incidentID, err)
	}
	rows, err := s.incidentRepo.GetTaxonomies(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomies of incident %d: %w", incidentID, err)
	}
	evidencias, err := s.evidenceNames(incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evidence of incident %d: %w", incidentID, err)
	}

	now := time.Now()
	doc := ReportDocument(tipo, incident, company, taxonomyAssignments(rows), evidencias, now)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	idVisible := incident.IDVisible
	if idVisible == "" {
		idVisible = fmt.Sprint(incidentID)
	}
	name := fmt.Sprintf("ANCI_%s_%s_%s.json", tipo, utils.SanitizeFilename(idVisible), utils.FormatTimestamp(now))

	tx := s.baseRepo.Begin()
	last, err := s.reportRepo.MaxVersion(tx, incidentID, tipo)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read report version: %w", err)
	}
	path, err := utils.WriteFileAtomic(config.Cfg.ReportDir, name, data)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	report := &models.AnciReport{
		IncidenteID:     incidentID,
		TipoReporte:     tipo,
		Version:         last + 1,
		FechaGeneracion: now,
		GeneradoPor:     defaultString(req.Usuario, "Sistema"),
		ContenidoJSON:   string(data),
		RutaArchivo:     path,
		TamanoKB:        utils.Round2(float64(len(data)) / 1024),
		Estado:          "Generado",
	}
	if err := s.reportRepo.Create(tx, report); err != nil {
		tx.Rollback()
		removeQuietly(path)
		return nil, fmt.Errorf("failed to register report: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		removeQuietly(path)
		return nil, fmt.Errorf("failed to commit report: %w", err)
	}

	logger.Infof("Generated ANCI %s report v%d for incident %d: %s", tipo, report.Version, incidentID, name)
	events.Emit(ctx, events.SubjectReportGenerated, map[string]interface{}{
		"incidente_id": incidentID,
		"informe_id":   report.InformeID,
		"tipo":         tipo,
		"version":      report.Version,
	})
	return &GeneratedReport{
		Success:       true,
		InformeID:     report.InformeID,
		Tipo:          tipo,
		Version:       report.Version,
		NombreArchivo: name,
		TamanoKB:      report.TamanoKB,
		Mensaje:       "Informe generado exitosamente",
	}, nil
}

func (s *reportService) FilePath(ctx context.Context, incidentID uint, name string) (string, error) {
	if name == "" || utils.HasPathSeparator(name) {
		return "", utils.InvalidInputf("Nombre de archivo inválido")
	}
	report, err := s.reportRepo.FindByFileName(nil, incidentID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", utils.NotFoundf("Informe no encontrado")
		}
		return "", fmt.Errorf("failed to find report %s: %w", name, err)
	}
	path := report.RutaArchivo
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(config.Cfg.ReportDir, path)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", utils.NotFoundf("Archivo del informe no encontrado")
		}
		return "", fmt.Errorf("failed to stat report %s: %w", path, err)
	}
	return path, nil
}

func (s *reportService) History(ctx context.Context, incidentID uint) ([]models.AnciReport, error) {
	if _, err := getIncident(s.incidentRepo, nil, incidentID); err != nil {
		return nil, err
	}
	reports, err := s.reportRepo.GetByIncident(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports of incident %d: %w", incidentID, err)
	}
	if reports == nil {
		reports = []models.AnciReport{}
	}
	return reports, nil
}
