package indicator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"agentedigitalapi/models"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/utils"

	"gorm.io/gorm"
)

// Result is the evaluation of one indicator for a company.
type Result struct {
	Codigo string  `json:"codigo"`
	Nombre string  `json:"nombre"`
	Valor  float64 `json:"valor"`
	Umbral float64 `json:"umbral"`
	Cumple bool    `json:"cumple"`
}

// Catalog returns the indicator definitions to evaluate.
type Catalog func() []models.Indicator

// Service evaluates the indicator catalog against a company's data.
type Service interface {
	Evaluate(ctx context.Context, companyID uint) ([]Result, error)
}

type service struct {
	catalog        Catalog
	companyRepo    repository.CompanyRepository
	complianceRepo repository.ComplianceRepository
	obligationRepo repository.ObligationRepository
	incidentRepo   repository.IncidentRepository
}

// NewService creates an indicator service reading definitions from catalog.
func NewService(catalog Catalog) Service {
	return &service{
		catalog:        catalog,
		companyRepo:    repository.NewCompanyRepository(),
		complianceRepo: repository.NewComplianceRepository(),
		obligationRepo: repository.NewObligationRepository(),
		incidentRepo:   repository.NewIncidentRepository(),
	}
}

func (s *service) Evaluate(ctx context.Context, companyID uint) ([]Result, error) {
	if _, err := s.companyRepo.GetByID(nil, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Empresa %d no encontrada", companyID)
		}
		return nil, fmt.Errorf("failed to get company %d: %w", companyID, err)
	}

	session, err := s.load(ctx, companyID)
	if err != nil {
		return nil, err
	}

	vars := map[string]string{"empresa_id": strconv.FormatUint(uint64(companyID), 10)}
	results := []Result{}
	for _, ind := range s.catalog() {
		rows, err := session.Execute(ctx, ind.SQL, vars)
		if err != nil {
			logger.Warnf("Indicator %s failed for company %d: %v", ind.Codigo, companyID, err)
			continue
		}
		valor := Value(rows)
		results = append(results, Result{
			Codigo: ind.Codigo,
			Nombre: ind.Nombre,
			Valor:  valor,
			Umbral: ind.Umbral,
			Cumple: ind.Meets(valor),
		})
	}
	logger.Debugf("Evaluated %d indicators for company %d", len(results), companyID)
	return results, nil
}

func (s *service) load(ctx context.Context, companyID uint) (*Session, error) {
	records, err := s.complianceRepo.GetByCompany(nil, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load compliance of company %d: %w", companyID, err)
	}
	obligations, err := s.obligationRepo.GetAll(nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load obligations: %w", err)
	}
	aplica := make(map[uint]string, len(obligations))
	for _, o := range obligations {
		aplica[o.ObligacionID] = o.AplicaPara
	}
	incidents, err := s.incidentRepo.GetByCompany(nil, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load incidents of company %d: %w", companyID, err)
	}

	compliance := make([]ComplianceRow, 0, len(records))
	for _, r := range records {
		compliance = append(compliance, ComplianceRow{
			ID:           r.CumplimientoID,
			EmpresaID:    r.EmpresaID,
			ObligacionID: r.ObligacionID,
			Estado:       r.Estado,
			Porcentaje:   r.PorcentajeAvance,
			AplicaPara:   aplica[r.ObligacionID],
		})
	}
	incidentRows := make([]IncidentRow, 0, len(incidents))
	for _, i := range incidents {
		incidentRows = append(incidentRows, IncidentRow{
			ID:         i.IncidenteID,
			EmpresaID:  i.EmpresaID,
			Criticidad: i.Criticidad,
			Estado:     i.EstadoActual,
		})
	}

	session := NewSession()
	if err := session.Load(ctx, compliance, incidentRows); err != nil {
		return nil, err
	}
	return session, nil
}

// Value reads the indicator value from a query result: the "valor" column of
// the first row, or its only column. Empty results and NULL count as zero.
func Value(rows []map[string]interface{}) float64 {
	if len(rows) == 0 {
		return 0
	}
	row := rows[0]
	v, ok := row["valor"]
	if !ok && len(row) == 1 {
		for _, only := range row {
			v = only
		}
	}
	if v == nil {
		return 0
	}
	f, err := strconv.ParseFloat(fmt.Sprint(v), 64)
	if err != nil {
		return 0
	}
	return utils.Round2(f)
}
