package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agentedigitalapi/models"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"gorm.io/gorm"
)

// UpsertResult reports the record touched by an upsert and whether it existed.
type UpsertResult struct {
	CumplimientoID uint `json:"CumplimientoID"`
	Updated        bool `json:"updated,omitempty"`
}

// ComplianceService manages compliance records of companies against obligations.
type ComplianceService interface {
	// Upsert updates the record of (EmpresaID, ObligacionID) or inserts it when missing.
	Upsert(ctx context.Context, req dto.ComplianceUpsert) (*UpsertResult, error)

	// CreateForCompany inserts a record for companyID. Returns ErrConflict when
	// the company already tracks the obligation.
	CreateForCompany(ctx context.Context, companyID uint, req dto.ComplianceUpsert) (*UpsertResult, error)

	// Update applies only the provided fields. Returns ErrInvalidInput when none is given.
	Update(ctx context.Context, id uint, req dto.ComplianceUpdate) (*models.ComplianceRecord, error)

	History(ctx context.Context, id uint) ([]models.ComplianceHistory, error)
	ListByCompany(ctx context.Context, companyID uint) ([]repository.ComplianceWithObligation, error)
}

type complianceService struct {
	baseRepo       repository.BaseRepository
	complianceRepo repository.ComplianceRepository
	companyRepo    repository.CompanyRepository
	obligationRepo repository.ObligationRepository
}

// NewComplianceService creates a new compliance service instance.
func NewComplianceService() ComplianceService {
	return &complianceService{
		baseRepo:       repository.NewBaseRepository(),
		complianceRepo: repository.NewComplianceRepository(),
		companyRepo:    repository.NewCompanyRepository(),
		obligationRepo: repository.NewObligationRepository(),
	}
}

// NewComplianceServiceWithDeps creates a service instance with injected dependencies.
func NewComplianceServiceWithDeps(
	baseRepo repository.BaseRepository,
	complianceRepo repository.ComplianceRepository,
	companyRepo repository.CompanyRepository,
	obligationRepo repository.ObligationRepository,
) ComplianceService {
	return &complianceService{
		baseRepo:       baseRepo,
		complianceRepo: complianceRepo,
		companyRepo:    companyRepo,
		obligationRepo: obligationRepo,
	}
}

// complianceFields is the set of optional fields shared by upsert and update.
type complianceFields struct {
	Estado                      *string
	PorcentajeAvance            *int
	Responsable                 *string
	FechaTermino                *string
	Observaciones               *string
	ObservacionesCiberseguridad *string
	ObservacionesLegales        *string
}

func fieldsFromUpsert(req dto.ComplianceUpsert) complianceFields {
	return complianceFields{
		Estado:                      req.Estado,
		PorcentajeAvance:            req.PorcentajeAvance,
		Responsable:                 req.Responsable,
		FechaTermino:                req.FechaTermino,
		Observaciones:               req.Observaciones,
		ObservacionesCiberseguridad: req.ObservacionesCiberseguridad,
		ObservacionesLegales:        req.ObservacionesLegales,
	}
}

func fieldsFromUpdate(req dto.ComplianceUpdate) complianceFields {
	return complianceFields{
		Estado:                      req.Estado,
		PorcentajeAvance:            req.PorcentajeAvance,
		Responsable:                 req.Responsable,
		FechaTermino:                req.FechaTermino,
		Observaciones:               req.Observaciones,
		ObservacionesCiberseguridad: req.ObservacionesCiberseguridad,
		ObservacionesLegales:        req.ObservacionesLegales,
	}
}

// columns validates f and converts it into a column map. An empty FechaTermino clears the date.
func (f complianceFields) columns() (map[string]interface{}, error) {
	cols := map[string]interface{}{}
	if f.Estado != nil {
		estado := strings.TrimSpace(*f.Estado)
		if !models.IsValidEstado(estado) {
			return nil, utils.InvalidInputf("Estado inválido: %q", estado)
		}
		cols["Estado"] = estado
	}
	if f.PorcentajeAvance != nil {
		if *f.PorcentajeAvance < 0 || *f.PorcentajeAvance > 100 {
			return nil, utils.InvalidInputf("PorcentajeAvance debe estar entre 0 y 100")
		}
		cols["PorcentajeAvance"] = *f.PorcentajeAvance
	}
	if f.Responsable != nil {
		cols["Responsable"] = *f.Responsable
	}
	if f.FechaTermino != nil {
		if strings.TrimSpace(*f.FechaTermino) == "" {
			cols["FechaTermino"] = nil
		} else {
			t, err := utils.ParseFlexibleDate(*f.FechaTermino)
			if err != nil {
				return nil, err
			}
			cols["FechaTermino"] = &t
		}
	}
	if f.Observaciones != nil {
		cols["Observaciones"] = *f.Observaciones
	}
	if f.ObservacionesCiberseguridad != nil {
		cols["ObservacionesCiberseguridad"] = *f.ObservacionesCiberseguridad
	}
	if f.ObservacionesLegales != nil {
		cols["ObservacionesLegales"] = *f.ObservacionesLegales
	}
	return cols, nil
}

func (s *complianceService) Upsert(ctx context.Context, req dto.ComplianceUpsert) (*UpsertResult, error) {
	if req.EmpresaID == 0 || req.ObligacionID == 0 {
		return nil, utils.InvalidInputf("EmpresaID y ObligacionID son requeridos")
	}
	return s.save(req, true)
}

func (s *complianceService) CreateForCompany(ctx context.Context, companyID uint, req dto.ComplianceUpsert) (*UpsertResult, error) {
	req.EmpresaID = companyID
	if req.ObligacionID == 0 {
		return nil, utils.InvalidInputf("ObligacionID es requerido")
	}
	return s.save(req, false)
}

// save runs the shared insert/update path. When allowUpdate is false an
// existing record is reported as a conflict.
func (s *complianceService) save(req dto.ComplianceUpsert, allowUpdate bool) (*UpsertResult, error) {
	cols, err := fieldsFromUpsert(req).columns()
	if err != nil {
		return nil, err
	}

	tx := s.baseRepo.Begin()

	if _, err := getCompany(s.companyRepo, tx, req.EmpresaID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := s.obligationRepo.GetByID(tx, req.ObligacionID); err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Obligación %d no encontrada", req.ObligacionID)
		}
		return nil, fmt.Errorf("failed to get obligation %d: %w", req.ObligacionID, err)
	}

	existing, err := s.complianceRepo.GetByCompanyAndObligation(tx, req.EmpresaID, req.ObligacionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return nil, fmt.Errorf("failed to look up compliance record: %w", err)
	}

	if existing != nil {
		if !allowUpdate {
			tx.Rollback()
			return nil, utils.Conflictf("La empresa %d ya registra la obligación %d", req.EmpresaID, req.ObligacionID)
		}
		if err := s.apply(tx, existing, cols, req.Usuario, req.Comentario); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Commit().Error; err != nil {
			return nil, fmt.Errorf("failed to commit compliance update: %w", err)
		}
		logger.Infof("Updated compliance record %d (empresa=%d, obligacion=%d)", existing.CumplimientoID, req.EmpresaID, req.ObligacionID)
		return &UpsertResult{CumplimientoID: existing.CumplimientoID, Updated: true}, nil
	}

	now := time.Now()
	record := &models.ComplianceRecord{
		EmpresaID:         req.EmpresaID,
		ObligacionID:      req.ObligacionID,
		Estado:            models.EstadoPendiente,
		FechaModificacion: &now,
	}
	applyColumns(record, cols)
	if err := s.complianceRepo.Create(tx, record); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create compliance record: %w", err)
	}
	if err := s.complianceRepo.AddHistory(tx, &models.ComplianceHistory{
		CumplimientoID:  record.CumplimientoID,
		EstadoNuevo:     record.Estado,
		PorcentajeNuevo: record.PorcentajeAvance,
		Comentario:      defaultString(req.Comentario, "Registro creado"),
		Usuario:         defaultString(req.Usuario, "Sistema"),
		FechaCambio:     now,
	}); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record compliance history: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit compliance record: %w", err)
	}
	logger.Infof("Created compliance record %d (empresa=%d, obligacion=%d)", record.CumplimientoID, req.EmpresaID, req.ObligacionID)
	return &UpsertResult{CumplimientoID: record.CumplimientoID}, nil
}

// apply writes cols over record and appends a history row when the state or
// the progress changed.
func (s *complianceService) apply(tx *gorm.DB, record *models.ComplianceRecord, cols map[string]interface{}, usuario, comentario string) error {
	now := time.Now()
	prevEstado, prevPct := record.Estado, record.PorcentajeAvance
	cols["FechaModificacion"] = &now
	if err := s.complianceRepo.Updates(tx, record.CumplimientoID, cols); err != nil {
		return fmt.Errorf("failed to update compliance record %d: %w", record.CumplimientoID, err)
	}
	applyColumns(record, cols)

	if record.Estado == prevEstado && record.PorcentajeAvance == prevPct {
		return nil
	}
	if err := s.complianceRepo.AddHistory(tx, &models.ComplianceHistory{
		CumplimientoID:     record.CumplimientoID,
		EstadoAnterior:     prevEstado,
		EstadoNuevo:        record.Estado,
		PorcentajeAnterior: prevPct,
		PorcentajeNuevo:    record.PorcentajeAvance,
		Comentario:         comentario,
		Usuario:            defaultString(usuario, "Sistema"),
		FechaCambio:        now,
	}); err != nil {
		return fmt.Errorf("failed to record compliance history: %w", err)
	}
	return nil
}

// applyColumns mirrors a column map onto the in-memory record.
func applyColumns(r *models.ComplianceRecord, cols map[string]interface{}) {
	for k, v := range cols {
		switch k {
		case "Estado":
			r.Estado = v.(string)
		case "PorcentajeAvance":
			r.PorcentajeAvance = v.(int)
		case "Responsable":
			r.Responsable = v.(string)
		case "FechaTermino":
			if t, ok := v.(*time.Time); ok {
				r.FechaTermino = t
			} else {
				r.FechaTermino = nil
			}
		case "Observaciones":
			r.Observaciones = v.(string)
		case "ObservacionesCiberseguridad":
			r.ObservacionesCiberseguridad = v.(string)
		case "ObservacionesLegales":
			r.ObservacionesLegales = v.(string)
		case "FechaModificacion":
			r.FechaModificacion = v.(*time.Time)
		}
	}
}

func (s *complianceService) Update(ctx context.Context, id uint, req dto.ComplianceUpdate) (*models.ComplianceRecord, error) {
	if req.Empty() {
		return nil, utils.InvalidInputf("No se proporcionaron campos para actualizar")
	}
	cols, err := fieldsFromUpdate(req).columns()
	if err != nil {
		return nil, err
	}

	tx := s.baseRepo.Begin()
	record, err := s.complianceRepo.GetByID(tx, id)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Cumplimiento %d no encontrado", id)
		}
		return nil, fmt.Errorf("failed to get compliance record %d: %w", id, err)
	}
	if err := s.apply(tx, record, cols, req.Usuario, req.Comentario); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit compliance update: %w", err)
	}
	logger.Infof("Updated compliance record %d (%d fields)", id, len(cols)-1)
	return record, nil
}

func (s *complianceService) History(ctx context.Context, id uint) ([]models.ComplianceHistory, error) {
	if _, err := s.complianceRepo.GetByID(nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Cumplimiento %d no encontrado", id)
		}
		return nil, fmt.Errorf("failed to get compliance record %d: %w", id, err)
	}
	history, err := s.complianceRepo.GetHistory(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of compliance record %d: %w", id, err)
	}
	return history, nil
}

func (s *complianceService) ListByCompany(ctx context.Context, companyID uint) ([]repository.ComplianceWithObligation, error) {
	if _, err := getCompany(s.companyRepo, nil, companyID); err != nil {
		return nil, err
	}
	rows, err := s.complianceRepo.GetByCompanyWithObligation(nil, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list compliance records of company %d: %w", companyID, err)
	}
	if rows == nil {
		rows = []repository.ComplianceWithObligation{}
	}
	return rows, nil
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
