package repository

import (
	"agentedigitalapi/config"
	"agentedigitalapi/models"

	"gorm.io/gorm"
)

// EvidenceRepository provides data access for compliance evidence files.
type EvidenceRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.ComplianceEvidence, error)
	GetByCompliance(tx *gorm.DB, complianceID uint) ([]models.ComplianceEvidence, error)
	CountByCompliance(tx *gorm.DB, complianceID uint) (int64, error)
	CountByCompany(tx *gorm.DB, companyID uint) (int64, error)
	Create(tx *gorm.DB, evidence *models.ComplianceEvidence) error
	Updates(tx *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(tx *gorm.DB, id uint) error
}

type evidenceRepository struct {
	db *gorm.DB
}

// NewEvidenceRepository creates a new evidence repository instance.
func NewEvidenceRepository() EvidenceRepository {
	return &evidenceRepository{
		db: config.DB,
	}
}

func (r *evidenceRepository) GetByID(tx *gorm.DB, id uint) (*models.ComplianceEvidence, error) {
	var evidence models.ComplianceEvidence
	if err := pick(tx, r.db).Where("EvidenciaID = ?", id).First(&evidence).Error; err != nil {
		return nil, err
	}
	return &evidence, nil
}

func (r *evidenceRepository) GetByCompliance(tx *gorm.DB, complianceID uint) ([]models.ComplianceEvidence, error) {
	var evidences []models.ComplianceEvidence
	if err := pick(tx, r.db).Where("CumplimientoID = ?", complianceID).
		Order("FechaSubida DESC, EvidenciaID DESC").Find(&evidences).Error; err != nil {
		return nil, err
	}
	return evidences, nil
}

func (r *evidenceRepository) CountByCompliance(tx *gorm.DB, complianceID uint) (int64, error) {
	var count int64
	err := pick(tx, r.db).Model(&models.ComplianceEvidence{}).
		Where("CumplimientoID = ?", complianceID).Count(&count).Error
	return count, err
}

// CountByCompany counts evidence through the company's compliance records.
func (r *evidenceRepository) CountByCompany(tx *gorm.DB, companyID uint) (int64, error) {
	var count int64
	err := pick(tx, r.db).Table(models.ComplianceEvidence{}.TableName()+" ev").
		Joins("INNER JOIN "+models.ComplianceRecord{}.TableName()+" c ON c.CumplimientoID = ev.CumplimientoID").
		Where("c.EmpresaID = ?", companyID).
		Count(&count).Error
	return count, err
}

func (r *evidenceRepository) Create(tx *gorm.DB, evidence *models.ComplianceEvidence) error {
	return pick(tx, r.db).Create(evidence).Error
}

func (r *evidenceRepository) Updates(tx *gorm.DB, id uint, fields map[string]interface{}) error {
	return pick(tx, r.db).Model(&models.ComplianceEvidence{}).
		Where("EvidenciaID = ?", id).Updates(fields).Error
}

func (r *evidenceRepository) Delete(tx *gorm.DB, id uint) error {
	return pick(tx, r.db).Where("EvidenciaID = ?", id).Delete(&models.ComplianceEvidence{}).Error
}
