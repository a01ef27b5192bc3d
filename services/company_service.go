package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agentedigitalapi/models"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/utils"

	"gorm.io/gorm"
)

// CompanySummary identifies a company inside a report.
type CompanySummary struct {
	EmpresaID   uint   `json:"EmpresaID"`
	RazonSocial string `json:"RazonSocial"`
	TipoEmpresa string `json:"TipoEmpresa"`
}

// ReportStats are the raw record counts of the compliance report.
type ReportStats struct {
	TotalObligaciones      int     `json:"total_obligaciones"`
	Implementadas          int     `json:"implementadas"`
	EnProceso              int     `json:"en_proceso"`
	Pendientes             int     `json:"pendientes"`
	PorcentajeCumplimiento float64 `json:"porcentaje_cumplimiento"`
}

// PlanItem is one applicable obligation with the company's progress on it.
type PlanItem struct {
	ObligacionID                uint    `json:"ObligacionID"`
	ArticuloNorma               string  `json:"ArticuloNorma"`
	Descripcion                 string  `json:"Descripcion"`
	MedioDeVerificacionSugerido string  `json:"MedioDeVerificacionSugerido"`
	AplicaPara                  string  `json:"AplicaPara"`
	ContactoTecnicoComercial    string  `json:"ContactoTecnicoComercial"`
	CumplimientoID              *uint   `json:"CumplimientoID"`
	Estado                      string  `json:"Estado"`
	PorcentajeAvance            int     `json:"PorcentajeAvance"`
	Responsable                 string  `json:"Responsable"`
	FechaTermino                *string `json:"FechaTermino"`
	Observaciones               string  `json:"Observaciones"`
	ObservacionesCiberseguridad string  `json:"ObservacionesCiberseguridad"`
	ObservacionesLegales        string  `json:"ObservacionesLegales"`
}

// ComplianceReport is the response of the compliance report of a company.
type ComplianceReport struct {
	Empresa         CompanySummary `json:"empresa"`
	Estadisticas    ReportStats    `json:"estadisticas_generales"`
	FechaGeneracion string         `json:"fecha_generacion"`
	Obligaciones    []PlanItem     `json:"obligaciones_detalle"`
}

// IncidentListItem is an incident as listed under its company.
type IncidentListItem struct {
	IncidenteID   uint      `json:"IncidenteID"`
	Titulo        string    `json:"Titulo"`
	EstadoActual  string    `json:"EstadoActual"`
	Criticidad    string    `json:"Criticidad"`
	FechaCreacion time.Time `json:"FechaCreacion"`
	IDVisible     string    `json:"IDVisible"`
}

// CompanyService provides company queries and compliance reporting.
type CompanyService interface {
	List(ctx context.Context) ([]repository.CompanyWithTenant, error)
	Get(ctx context.Context, id uint) (*models.Company, error)

	// DashboardStats computes the compliance and incident overview of a company.
	DashboardStats(ctx context.Context, id uint) (*DashboardStats, error)

	// ComplianceReport returns raw statistics plus the obligation detail.
	ComplianceReport(ctx context.Context, id uint) (*ComplianceReport, error)

	// Plan returns the applicable obligations ordered by article.
	Plan(ctx context.Context, id uint) ([]PlanItem, error)

	Incidents(ctx context.Context, id uint) ([]IncidentListItem, error)
}

type companyService struct {
	companyRepo    repository.CompanyRepository
	complianceRepo repository.ComplianceRepository
	evidenceRepo   repository.EvidenceRepository
	incidentRepo   repository.IncidentRepository
}

// NewCompanyService creates a new company service instance.
func NewCompanyService() CompanyService {
	return &companyService{
		companyRepo:    repository.NewCompanyRepository(),
		complianceRepo: repository.NewComplianceRepository(),
		evidenceRepo:   repository.NewEvidenceRepository(),
		incidentRepo:   repository.NewIncidentRepository(),
	}
}

// NewCompanyServiceWithDeps creates a service instance with injected dependencies.
func NewCompanyServiceWithDeps(
	companyRepo repository.CompanyRepository,
	complianceRepo repository.ComplianceRepository,
	evidenceRepo repository.EvidenceRepository,
	incidentRepo repository.IncidentRepository,
) CompanyService {
	return &companyService{
		companyRepo:    companyRepo,
		complianceRepo: complianceRepo,
		evidenceRepo:   evidenceRepo,
		incidentRepo:   incidentRepo,
	}
}

func (s *companyService) List(ctx context.Context) ([]repository.CompanyWithTenant, error) {
	rows, err := s.companyRepo.GetAll(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	if rows == nil {
		rows = []repository.CompanyWithTenant{}
	}
	return rows, nil
}

func (s *companyService) Get(ctx context.Context, id uint) (*models.Company, error) {
	return getCompany(s.companyRepo, nil, id)
}

// getCompany loads a company and converts a missing row into ErrNotFound.
func getCompany(repo repository.CompanyRepository, tx *gorm.DB, id uint) (*models.Company, error) {
	company, err := repo.GetByID(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Empresa %d no encontrada", id)
		}
		return nil, fmt.Errorf("failed to get company %d: %w", id, err)
	}
	return company, nil
}

// catalogFilter maps a company type to the AplicaPara filter of the catalog.
// AMBAS companies are bound by the whole catalog.
func catalogFilter(tipoEmpresa string) string {
	if tipoEmpresa == models.TipoEmpresaAmbas {
		return ""
	}
	if tipoEmpresa == "" {
		return models.TipoEmpresaPSE
	}
	return tipoEmpresa
}

func (s *companyService) DashboardStats(ctx context.Context, id uint) (*DashboardStats, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	records, err := s.complianceRepo.GetByCompany(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load compliance records of company %d: %w", id, err)
	}
	base := BaseObligations(company.TipoEmpresa)
	counts := CountCompliance(records, base)
	porcentaje := Percentage(counts.Implementadas, counts.Total)

	incidents, err := s.incidentRepo.GetByCompany(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load incidents of company %d: %w", id, err)
	}
	incidentCounts := CountIncidents(incidents)

	evidencias, err := s.evidenceRepo.CountByCompany(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count evidence of company %d: %w", id, err)
	}

	upcoming, err := s.complianceRepo.GetUpcomingDeadlines(nil, id, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming deadlines of company %d: %w", id, err)
	}
	proximas := make([]UpcomingDeadline, 0, len(upcoming))
	for _, u := range upcoming {
		if u.FechaTermino == nil {
			continue
		}
		proximas = append(proximas, UpcomingDeadline{
			ArticuloNorma: u.ArticuloNorma,
			FechaTermino:  u.FechaTermino.Format("2006-01-02"),
			DiasRestantes: DaysUntil(*u.FechaTermino, now),
		})
	}

	stats := &DashboardStats{
		EmpresaID:              id,
		TipoEmpresa:            company.TipoEmpresa,
		PorcentajeCumplimiento: porcentaje,
		ComplianceCounts:       counts,
		TotalEvidencias:        int(evidencias),
		RiesgoNivel:            RiskLevel(porcentaje, incidentCounts),
		Tendencia:              Tendency(records, porcentaje, base, now),
		Incidentes:             incidentCounts,
		ProximasFechas:         proximas,
		Timestamp:              now.Format(time.RFC3339),
	}
	logger.Debugf("Dashboard for company %d: %d%% (%s risk)", id, porcentaje, stats.RiesgoNivel)
	return stats, nil
}

func (s *companyService) ComplianceReport(ctx context.Context, id uint) (*ComplianceReport, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.complianceRepo.GetByCompany(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load compliance records of company %d: %w", id, err)
	}

	var stats ReportStats
	stats.TotalObligaciones = len(records)
	for _, r := range records {
		switch r.Estado {
		case models.EstadoImplementado:
			stats.Implementadas++
		case models.EstadoEnProceso:
			stats.EnProceso++
		case models.EstadoPendiente:
			stats.Pendientes++
		}
	}
	if stats.TotalObligaciones > 0 {
		stats.PorcentajeCumplimiento = utils.Round2(float64(stats.Implementadas) / float64(stats.TotalObligaciones) * 100)
	}

	plan, err := s.plan(company)
	if err != nil {
		return nil, err
	}

	tipo := company.TipoEmpresa
	if tipo == "" {
		tipo = models.TipoEmpresaPSE
	}
	return &ComplianceReport{
		Empresa:         CompanySummary{EmpresaID: company.EmpresaID, RazonSocial: company.RazonSocial, TipoEmpresa: tipo},
		Estadisticas:    stats,
		FechaGeneracion: time.Now().Format("2006-01-02 15:04:05"),
		Obligaciones:    plan,
	}, nil
}

func (s *companyService) Plan(ctx context.Context, id uint) ([]PlanItem, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.plan(company)
}

func (s *companyService) plan(company *models.Company) ([]PlanItem, error) {
	rows, err := s.complianceRepo.GetObligationPlan(nil, company.EmpresaID, catalogFilter(company.TipoEmpresa))
	if err != nil {
		return nil, fmt.Errorf("failed to load obligation plan of company %d: %w", company.EmpresaID, err)
	}
	items := make([]PlanItem, 0, len(rows))
	for _, r := range rows {
		item := PlanItem{
			ObligacionID:                r.ObligacionID,
			ArticuloNorma:               r.ArticuloNorma,
			Descripcion:                 r.Descripcion,
			MedioDeVerificacionSugerido: r.MedioDeVerificacionSugerido,
			AplicaPara:                  r.AplicaPara,
			ContactoTecnicoComercial:    r.ContactoTecnicoComercial,
			CumplimientoID:              r.CumplimientoID,
			Estado:                      models.EstadoPendiente,
			Responsable:                 deref(r.Responsable),
			Observaciones:               deref(r.Observaciones),
			ObservacionesCiberseguridad: deref(r.ObservacionesCiberseguridad),
			ObservacionesLegales:        deref(r.ObservacionesLegales),
		}
		if r.Estado != nil && *r.Estado != "" {
			item.Estado = *r.Estado
		}
		if r.PorcentajeAvance != nil {
			item.PorcentajeAvance = *r.PorcentajeAvance
		}
		if r.FechaTermino != nil {
			f := r.FechaTermino.Format("2006-01-02")
			item.FechaTermino = &f
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *companyService) Incidents(ctx context.Context, id uint) ([]IncidentListItem, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	incidents, err := s.incidentRepo.GetByCompany(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents of company %d: %w", id, err)
	}
	items := make([]IncidentListItem, 0, len(incidents))
	for _, i := range incidents {
		items = append(items, IncidentListItem{
			IncidenteID:   i.IncidenteID,
			Titulo:        i.Titulo,
			EstadoActual:  i.EstadoActual,
			Criticidad:    i.Criticidad,
			FechaCreacion: i.FechaCreacion,
			IDVisible:     i.IDVisible,
		})
	}
	return items, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
