package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"agentedigitalapi/config"
	"agentedigitalapi/models"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"gorm.io/gorm"
)

const (
	maxUserAgentLength = 255
	defaultTenantID    = 1
)

// EvidenceView is an evidence row with its computed validity state.
type EvidenceView struct {
	models.ComplianceEvidence
	EstadoVigencia string `json:"EstadoVigencia"`
	TipoIcono      string `json:"tipo_icono"`
}

// EvidenceSummary aggregates the evidence of one compliance record.
type EvidenceSummary struct {
	CumplimientoID uint           `json:"cumplimiento_id"`
	Total          int            `json:"total"`
	TotalSizeKB    float64        `json:"total_size_kb"`
	PorVigencia    map[string]int `json:"por_vigencia"`
	UltimaSubida   *time.Time     `json:"ultima_subida"`
	TiposArchivo   map[string]int `json:"tipos_archivo"`
}

// UploadedEvidence is returned after a successful upload.
type UploadedEvidence struct {
	EvidenciaID uint    `json:"EvidenciaID"`
	Filename    string  `json:"filename"`
	SizeKB      float64 `json:"size_kb"`
	Version     int     `json:"version"`
}

// EvidenceService manages files that back compliance records.
type EvidenceService interface {
	List(ctx context.Context, complianceID uint) ([]EvidenceView, error)
	Summary(ctx context.Context, complianceID uint) (*EvidenceSummary, error)

	// Upload stores the file under the company's directory and records it.
	// The file is removed again when the insert fails.
	Upload(ctx context.Context, complianceID uint, req dto.EvidenceUpload) (*UploadedEvidence, error)

	// Open returns the evidence row and the path of its file on disk.
	Open(ctx context.Context, id uint) (*models.ComplianceEvidence, string, error)

	Update(ctx context.Context, id uint, req dto.EvidenceUpdate) error
	Comment(ctx context.Context, id uint, comentario string) error

	// Delete removes the file first and then the row. A missing file is only logged.
	Delete(ctx context.Context, id uint) error
}

type evidenceService struct {
	baseRepo       repository.BaseRepository
	evidenceRepo   repository.EvidenceRepository
	complianceRepo repository.ComplianceRepository
	companyRepo    repository.CompanyRepository
}

// NewEvidenceService creates a new evidence service instance.
func NewEvidenceService() EvidenceService {
	return &evidenceService{
		baseRepo:       repository.NewBaseRepository(),
		evidenceRepo:   repository.NewEvidenceRepository(),
		complianceRepo: repository.NewComplianceRepository(),
		companyRepo:    repository.NewCompanyRepository(),
	}
}

// NewEvidenceServiceWithDeps creates a service instance with injected dependencies.
func NewEvidenceServiceWithDeps(
	baseRepo repository.BaseRepository,
	evidenceRepo repository.EvidenceRepository,
	complianceRepo repository.ComplianceRepository,
	companyRepo repository.CompanyRepository,
) EvidenceService {
	return &evidenceService{
		baseRepo:       baseRepo,
		evidenceRepo:   evidenceRepo,
		complianceRepo: complianceRepo,
		companyRepo:    companyRepo,
	}
}

func (s *evidenceService) getRecord(id uint) (*models.ComplianceRecord, error) {
	record, err := s.complianceRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Cumplimiento %d no encontrado", id)
		}
		return nil, fmt.Errorf("failed to get compliance record %d: %w", id, err)
	}
	return record, nil
}

func (s *evidenceService) getEvidence(id uint) (*models.ComplianceEvidence, error) {
	evidence, err := s.evidenceRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Evidencia %d no encontrada", id)
		}
		return nil, fmt.Errorf("failed to get evidence %d: %w", id, err)
	}
	return evidence, nil
}

func (s *evidenceService) List(ctx context.Context, complianceID uint) ([]EvidenceView, error) {
	if _, err := s.getRecord(complianceID); err != nil {
		return nil, err
	}
	evidences, err := s.evidenceRepo.GetByCompliance(nil, complianceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence of compliance record %d: %w", complianceID, err)
	}
	now := time.Now()
	views := make([]EvidenceView, 0, len(evidences))
	for _, e := range evidences {
		views = append(views, EvidenceView{
			ComplianceEvidence: e,
			EstadoVigencia:     EvidenceValidity(e.FechaVigencia, now),
			TipoIcono:          fileKind(e.NombreArchivoOriginal),
		})
	}
	return views, nil
}

func (s *evidenceService) Summary(ctx context.Context, complianceID uint) (*EvidenceSummary, error) {
	views, err := s.List(ctx, complianceID)
	if err != nil {
		return nil, err
	}
	summary := &EvidenceSummary{
		CumplimientoID: complianceID,
		Total:          len(views),
		PorVigencia:    map[string]int{"vigente": 0, "por_vencer": 0, "vencido": 0, "sin_vigencia": 0},
		TiposArchivo:   map[string]int{},
	}
	for i, v := range views {
		summary.TotalSizeKB += v.TamanoArchivoKB
		summary.PorVigencia[v.EstadoVigencia]++
		summary.TiposArchivo[v.TipoIcono]++
		if i == 0 || v.FechaSubida.After(*summary.UltimaSubida) {
			t := v.FechaSubida
			summary.UltimaSubida = &t
		}
	}
	summary.TotalSizeKB = utils.Round2(summary.TotalSizeKB)
	return summary, nil
}

// fileKind groups a file name into the icon families shown by the UI.
func fileKind(name string) string {
	switch ext := strings.ToLower(filepath.Ext(name)); {
	case ext == ".pdf":
		return "pdf"
	case strings.HasPrefix(ext, ".doc"):
		return "word"
	case strings.HasPrefix(ext, ".xls"):
		return "excel"
	case ext == ".jpg" || ext == ".jpeg" || ext == ".png":
		return "imagen"
	default:
		return "archivo"
	}
}

func (s *evidenceService) Upload(ctx context.Context, complianceID uint, req dto.EvidenceUpload) (*UploadedEvidence, error) {
	if len(req.Content) == 0 {
		return nil, utils.InvalidInputf("No se recibió ningún archivo")
	}
	filename := utils.SanitizeFilename(req.FileName)
	if filename == "" {
		return nil, utils.InvalidInputf("Nombre de archivo inválido")
	}
	ext := filepath.Ext(filename)
	if !config.IsAllowedExtension(ext) {
		return nil, utils.InvalidInputf("Tipo de archivo no permitido: %s", ext)
	}
	if config.Cfg.MaxUploadMB > 0 && int64(len(req.Content)) > int64(config.Cfg.MaxUploadMB)*1024*1024 {
		return nil, utils.InvalidInputf("El archivo excede el tamaño máximo de %d MB", config.Cfg.MaxUploadMB)
	}

	var fechaVigencia *time.Time
	if v := strings.TrimSpace(req.FechaVigencia); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return nil, utils.InvalidInputf("fecha_vigencia debe tener formato YYYY-MM-DD")
		}
		fechaVigencia = &t
	}

	record, err := s.getRecord(complianceID)
	if err != nil {
		return nil, err
	}
	company, err := getCompany(s.companyRepo, nil, record.EmpresaID)
	if err != nil {
		return nil, err
	}
	tenantID := uint(defaultTenantID)
	if company.InquilinoID != nil && *company.InquilinoID > 0 {
		tenantID = *company.InquilinoID
	}

	now := time.Now()
	storedName := utils.EvidenceFileName(now, req.Content, filename)
	dir := filepath.Join(config.Cfg.UploadDir,
		fmt.Sprintf("inquilino_%d", tenantID), fmt.Sprintf("empresa_%d", company.EmpresaID))
	path, err := utils.WriteFileAtomic(dir, storedName, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store evidence file: %w", err)
	}
	logger.Debugf("Stored evidence file %s (%d bytes)", path, len(req.Content))

	tx := s.baseRepo.Begin()
	count, err := s.evidenceRepo.CountByCompliance(tx, complianceID)
	if err != nil {
		tx.Rollback()
		removeQuietly(path)
		return nil, fmt.Errorf("failed to count evidence versions: %w", err)
	}

	userAgent := truncateRunes(req.UserAgent, maxUserAgentLength)
	sizeKB := float64(len(req.Content)) / 1024
	evidence := &models.ComplianceEvidence{
		CumplimientoID:          complianceID,
		NombreArchivoOriginal:   filename,
		NombreArchivoAlmacenado: storedName,
		RutaArchivo:             path,
		TipoArchivo:             req.ContentType,
		TamanoArchivoKB:         sizeKB,
		FechaSubida:             now,
		Version:                 int(count) + 1,
		UsuarioQueSubio:         defaultString(req.Usuario, "Sistema"),
		Descripcion:             req.Descripcion,
		FechaVigencia:           fechaVigencia,
		IPAddress:               req.IPAddress,
		UserAgent:               userAgent,
		InquilinoID:             tenantID,
		EmpresaID:               company.EmpresaID,
	}
	if err := s.evidenceRepo.Create(tx, evidence); err != nil {
		tx.Rollback()
		removeQuietly(path)
		return nil, fmt.Errorf("failed to record evidence: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		removeQuietly(path)
		return nil, fmt.Errorf("failed to commit evidence: %w", err)
	}

	logger.Infof("Uploaded evidence %d for compliance record %d (v%d, %s)",
		evidence.EvidenciaID, complianceID, evidence.Version, filename)
	return &UploadedEvidence{
		EvidenciaID: evidence.EvidenciaID,
		Filename:    filename,
		SizeKB:      utils.Round2(sizeKB),
		Version:     evidence.Version,
	}, nil
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to remove file %s: %v", path, err)
	}
}

func (s *evidenceService) Open(ctx context.Context, id uint) (*models.ComplianceEvidence, string, error) {
	evidence, err := s.getEvidence(id)
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(evidence.RutaArchivo); err != nil {
		if os.IsNotExist(err) {
			return nil, "", utils.NotFoundf("Archivo de la evidencia %d no encontrado", id)
		}
		return nil, "", fmt.Errorf("failed to stat evidence file: %w", err)
	}
	return evidence, evidence.RutaArchivo, nil
}

func (s *evidenceService) Update(ctx context.Context, id uint, req dto.EvidenceUpdate) error {
	if req.Descripcion == nil && req.FechaVigencia == nil {
		return utils.InvalidInputf("Debe indicar descripcion o fecha_vigencia")
	}
	if _, err := s.getEvidence(id); err != nil {
		return err
	}

	table := models.ComplianceEvidence{}.TableName()
	fields := map[string]interface{}{}
	if req.Descripcion != nil {
		fields["Descripcion"] = *req.Descripcion
	}
	if req.FechaVigencia != nil {
		if !s.baseRepo.HasColumn(nil, table, "FechaVigencia") {
			logger.Warnf("Column %s.FechaVigencia not present, skipping", table)
		} else if v := strings.TrimSpace(*req.FechaVigencia); v == "" {
			fields["FechaVigencia"] = nil
		} else {
			t, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				return utils.InvalidInputf("fecha_vigencia debe tener formato YYYY-MM-DD")
			}
			fields["FechaVigencia"] = &t
		}
	}
	if len(fields) == 0 {
		return utils.InvalidInputf("No hay campos para actualizar")
	}
	if err := s.evidenceRepo.Updates(nil, id, fields); err != nil {
		return fmt.Errorf("failed to update evidence %d: %w", id, err)
	}
	logger.Infof("Updated evidence %d", id)
	return nil
}

func (s *evidenceService) Comment(ctx context.Context, id uint, comentario string) error {
	if _, err := s.getEvidence(id); err != nil {
		return err
	}
	table := models.ComplianceEvidence{}.TableName()
	if !s.baseRepo.HasColumn(nil, table, "Comentario") {
		return fmt.Errorf("column %s.Comentario not present", table)
	}
	if err := s.evidenceRepo.Updates(nil, id, map[string]interface{}{"Comentario": comentario}); err != nil {
		return fmt.Errorf("failed to update comment of evidence %d: %w", id, err)
	}
	return nil
}

func (s *evidenceService) Delete(ctx context.Context, id uint) error {
	evidence, err := s.getEvidence(id)
	if err != nil {
		return err
	}
	if evidence.RutaArchivo != "" {
		if err := os.Remove(evidence.RutaArchivo); err != nil {
			if os.IsNotExist(err) {
				logger.Warnf("Evidence file %s already missing", evidence.RutaArchivo)
			} else {
				return fmt.Errorf("failed to remove evidence file %s: %w", evidence.RutaArchivo, err)
			}
		}
	}
	if err := s.evidenceRepo.Delete(nil, id); err != nil {
		return fmt.Errorf("failed to delete evidence %d: %w", id, err)
	}
	logger.Infof("Deleted evidence %d (%s)", id, evidence.NombreArchivoOriginal)
	return nil
}
