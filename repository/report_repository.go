package repository

import (
	"path"
	"strings"

	"agentedigitalapi/config"
	"agentedigitalapi/models"

	"gorm.io/gorm"
)

// ReportRepository provides data access for generated ANCI reports.
type ReportRepository interface {
	Create(tx *gorm.DB, report *models.AnciReport) error
	GetByIncident(tx *gorm.DB, incidentID uint) ([]models.AnciReport, error)
	GetByIncidents(tx *gorm.DB, incidentIDs []uint) ([]models.AnciReport, error)
	MaxVersion(tx *gorm.DB, incidentID uint, tipo string) (int, error)
	FindByFileName(tx *gorm.DB, incidentID uint, name string) (*models.AnciReport, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance.
func NewReportRepository() ReportRepository {
	return &reportRepository{
		db: config.DB,
	}
}

func (r *reportRepository) Create(tx *gorm.DB, report *models.AnciReport) error {
	return pick(tx, r.db).Create(report).Error
}

func (r *reportRepository) GetByIncident(tx *gorm.DB, incidentID uint) ([]models.AnciReport, error) {
	var reports []models.AnciReport
	err := pick(tx, r.db).Omit("ContenidoJSON").Where("IncidenteID = ?", incidentID).
		Order("FechaGeneracion DESC, InformeID DESC").Find(&reports).Error
	return reports, err
}

func (r *reportRepository) GetByIncidents(tx *gorm.DB, incidentIDs []uint) ([]models.AnciReport, error) {
	if len(incidentIDs) == 0 {
		return nil, nil
	}
	var reports []models.AnciReport
	err := pick(tx, r.db).Omit("ContenidoJSON").Where("IncidenteID IN ?", incidentIDs).Find(&reports).Error
	return reports, err
}

func (r *reportRepository) MaxVersion(tx *gorm.DB, incidentID uint, tipo string) (int, error) {
	var max *int
	err := pick(tx, r.db).Model(&models.AnciReport{}).
		Where("IncidenteID = ? AND TipoReporte = ?", incidentID, tipo).
		Select("MAX(Version)").Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

// FindByFileName returns the report of incidentID whose stored path ends in name.
func (r *reportRepository) FindByFileName(tx *gorm.DB, incidentID uint, name string) (*models.AnciReport, error) {
	var reports []models.AnciReport
	if err := pick(tx, r.db).Omit("ContenidoJSON").Where("IncidenteID = ?", incidentID).
		Find(&reports).Error; err != nil {
		return nil, err
	}
	for i := range reports {
		if baseName(reports[i].RutaArchivo) == name {
			return &reports[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// baseName also splits on backslashes, which rows written by Windows hosts carry.
func baseName(p string) string {
	return path.Base(strings.ReplaceAll(p, "\\", "/"))
}
