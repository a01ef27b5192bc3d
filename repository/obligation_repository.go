package repository

import (
	"agentedigitalapi/config"
	"agentedigitalapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ObligationRepository provides data access operations for the obligation catalog.
type ObligationRepository interface {
	GetAll(tx *gorm.DB, aplicaPara string) ([]models.Obligation, error)
	GetByID(tx *gorm.DB, id uint) (*models.Obligation, error)
	Count(tx *gorm.DB) (int64, error)
	Upsert(tx *gorm.DB, obligations []models.Obligation) error
}

type obligationRepository struct {
	db *gorm.DB
}

// NewObligationRepository creates a new obligation repository instance.
func NewObligationRepository() ObligationRepository {
	return &obligationRepository{
		db: config.DB,
	}
}

// GetAll lists the catalog ordered by article. An empty aplicaPara returns every row;
// otherwise rows for that type and for "Ambos" are returned.
func (r *obligationRepository) GetAll(tx *gorm.DB, aplicaPara string) ([]models.Obligation, error) {
	q := pick(tx, r.db).Model(&models.Obligation{})
	if aplicaPara != "" {
		q = q.Where("AplicaPara = ? OR AplicaPara = ?", aplicaPara, "Ambos")
	}
	var obligations []models.Obligation
	if err := q.Order("ArticuloNorma").Find(&obligations).Error; err != nil {
		return nil, err
	}
	return obligations, nil
}

func (r *obligationRepository) GetByID(tx *gorm.DB, id uint) (*models.Obligation, error) {
	var obligation models.Obligation
	if err := pick(tx, r.db).Where("ObligacionID = ?", id).First(&obligation).Error; err != nil {
		return nil, err
	}
	return &obligation, nil
}

func (r *obligationRepository) Count(tx *gorm.DB) (int64, error) {
	var count int64
	if err := pick(tx, r.db).Model(&models.Obligation{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *obligationRepository) Upsert(tx *gorm.DB, obligations []models.Obligation) error {
	if len(obligations) == 0 {
		return nil
	}
	return pick(tx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ObligacionID"}},
		UpdateAll: true,
	}).Create(&obligations).Error
}
