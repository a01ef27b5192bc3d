package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agentedigitalapi/models"
	"agentedigitalapi/pkg/events"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/utils"
)

// MissingField is a required ANCI field left empty.
type MissingField struct {
	Campo       string `json:"campo"`
	Descripcion string `json:"descripcion"`
}

// AnciValidation is the result of checking an incident before declaring it to ANCI.
type AnciValidation struct {
	Valido          bool           `json:"valido"`
	Mensaje         string         `json:"mensaje,omitempty"`
	CamposFaltantes []MissingField `json:"campos_faltantes,omitempty"`
}

// AnciTransformation is returned after an incident becomes an ANCI report.
type AnciTransformation struct {
	Mensaje             string `json:"mensaje"`
	ReporteID           uint   `json:"reporte_id"`
	FechaTransformacion string `json:"fecha_transformacion"`
}

type anciRequirement struct {
	campo       string
	descripcion string
	value       func(*models.Incident) string
}

func dateText(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

var anciRequirements = []anciRequirement{
	{"Titulo", "Título del incidente", func(i *models.Incident) string { return i.Titulo }},
	{"FechaDeteccion", "Fecha y hora de detección", func(i *models.Incident) string { return dateText(i.FechaDeteccion) }},
	{"FechaOcurrencia", "Fecha y hora de ocurrencia", func(i *models.Incident) string { return dateText(i.FechaOcurrencia) }},
	{"Criticidad", "Nivel de criticidad", func(i *models.Incident) string { return i.Criticidad }},
	{"DescripcionInicial", "Descripción inicial del incidente", func(i *models.Incident) string { return i.DescripcionInicial }},
	{"AnciImpactoPreliminar", "Impacto preliminar", func(i *models.Incident) string { return i.AnciImpactoPreliminar }},
	{"SistemasAfectados", "Sistemas afectados", func(i *models.Incident) string { return i.SistemasAfectados }},
	{"ServiciosInterrumpidos", "Servicios interrumpidos", func(i *models.Incident) string { return i.ServiciosInterrumpidos }},
	{"OrigenIncidente", "Origen del incidente", func(i *models.Incident) string { return i.OrigenIncidente }},
	{"AnciTipoAmenaza", "Tipo de amenaza", func(i *models.Incident) string { return i.AnciTipoAmenaza }},
	{"ResponsableCliente", "Responsable del cliente", func(i *models.Incident) string { return i.ResponsableCliente }},
	{"AccionesInmediatas", "Acciones inmediatas de contención", func(i *models.Incident) string { return i.AccionesInmediatas }},
	{"CausaRaiz", "Análisis de causa raíz", func(i *models.Incident) string { return i.CausaRaiz }},
	{"TipoRegistro", "Tipo de registro", func(i *models.Incident) string { return i.TipoRegistro }},
}

// MissingAnciFields lists the required fields that are still empty. A missing
// taxonomy is reported under the campo "Taxonomias".
func MissingAnciFields(i *models.Incident, taxonomias int) []MissingField {
	var missing []MissingField
	for _, r := range anciRequirements {
		if strings.TrimSpace(r.value(i)) == "" {
			missing = append(missing, MissingField{Campo: r.campo, Descripcion: r.descripcion})
		}
	}
	if taxonomias == 0 {
		missing = append(missing, MissingField{Campo: "Taxonomias", Descripcion: "Al menos una taxonomía asignada"})
	}
	return missing
}

// AnciService checks incidents and declares them to ANCI.
type AnciService interface {
	Validate(ctx context.Context, incidentID uint) (*AnciValidation, error)

	// Transform creates the initial report and marks the incident as declared.
	// An incident that does not validate returns a ValidationError.
	Transform(ctx context.Context, incidentID uint, usuario string) (*AnciTransformation, error)
}

type anciService struct {
	baseRepo     repository.BaseRepository
	incidentRepo repository.IncidentRepository
	companyRepo  repository.CompanyRepository
	reportRepo   repository.ReportRepository
}

// NewAnciService creates a new ANCI service instance.
func NewAnciService() AnciService {
	return &anciService{
		baseRepo:     repository.NewBaseRepository(),
		incidentRepo: repository.NewIncidentRepository(),
		companyRepo:  repository.NewCompanyRepository(),
		reportRepo:   repository.NewReportRepository(),
	}
}

// NewAnciServiceWithDeps creates a service instance with injected dependencies.
func NewAnciServiceWithDeps(
	baseRepo repository.BaseRepository,
	incidentRepo repository.IncidentRepository,
	companyRepo repository.CompanyRepository,
	reportRepo repository.ReportRepository,
) AnciService {
	return &anciService{baseRepo: baseRepo, incidentRepo: incidentRepo, companyRepo: companyRepo, reportRepo: reportRepo}
}

func (s *anciService) check(incidentID uint) (*models.Incident, []MissingField, error) {
	incident, err := getIncident(s.incidentRepo, nil, incidentID)
	if err != nil {
		return nil, nil, err
	}
	if incident.IsAnci() {
		return nil, nil, utils.InvalidInputf("El incidente ya fue transformado a ANCI")
	}
	taxonomias, err := s.incidentRepo.CountTaxonomies(nil, incidentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count taxonomies of incident %d: %w", incidentID, err)
	}
	return incident, MissingAnciFields(incident, int(taxonomias)), nil
}

func (s *anciService) Validate(ctx context.Context, incidentID uint) (*AnciValidation, error) {
	_, missing, err := s.check(incidentID)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return &AnciValidation{Valido: false, CamposFaltantes: missing}, nil
	}
	return &AnciValidation{Valido: true, Mensaje: "El incidente cumple los requisitos para ANCI"}, nil
}

func (s *anciService) Transform(ctx context.Context, incidentID uint, usuario string) (*AnciTransformation, error) {
	incident, missing, err := s.check(incidentID)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		detalles := make([]string, 0, len(missing))
		for _, m := range missing {
			detalles = append(detalles, m.Campo+": "+m.Descripcion)
		}
		return nil, &utils.ValidationError{Message: "El incidente no cumple los requisitos para ANCI", Detalles: detalles}
	}

	empresa, tipoEmpresa := "", ""
	if company, err := s.companyRepo.GetByID(nil, incident.EmpresaID); err == nil {
		empresa, tipoEmpresa = company.RazonSocial, company.TipoEmpresa
	}

	now := time.Now()
	content, err := json.Marshal(map[string]interface{}{
		"tipo":             "inicial",
		"fecha_generacion": now.Format(time.RFC3339),
		"datos_incidente": map[string]interface{}{
			"id":           incident.IncidenteID,
			"titulo":       incident.Titulo,
			"empresa":      empresa,
			"tipo_empresa": tipoEmpresa,
			"criticidad":   incident.Criticidad,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode initial report: %w", err)
	}

	tx := s.baseRepo.Begin()
	report := &models.AnciReport{
		IncidenteID:     incidentID,
		TipoReporte:     models.TipoReporteInicial,
		Version:         1,
		FechaGeneracion: now,
		GeneradoPor:     defaultString(usuario, "Sistema"),
		ContenidoJSON:   string(content),
		RutaArchivo:     fmt.Sprintf("informes/anci_%d_inicial_v1.txt", incidentID),
		Estado:          "Generado",
	}
	if err := s.reportRepo.Create(tx, report); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create initial report: %w", err)
	}
	if err := s.incidentRepo.Updates(tx, incidentID, map[string]interface{}{
		"ReporteAnciID":        report.InformeID,
		"FechaDeclaracionANCI": &now,
		"FechaActualizacion":   &now,
	}); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to mark incident %d as ANCI: %w", incidentID, err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit ANCI transformation: %w", err)
	}

	logger.Infof("Incident %d transformed to ANCI (report %d)", incidentID, report.InformeID)
	events.Emit(ctx, events.SubjectIncidentAnci, map[string]interface{}{
		"incidente_id": incidentID,
		"empresa_id":   incident.EmpresaID,
		"reporte_id":   report.InformeID,
	})
	return &AnciTransformation{
		Mensaje:             "Incidente transformado a ANCI exitosamente",
		ReporteID:           report.InformeID,
		FechaTransformacion: now.Format(time.RFC3339),
	}, nil
}
