package repository

import (
	"agentedigitalapi/config"
	"agentedigitalapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaxonomyRepository provides data access for the taxonomy catalog.
type TaxonomyRepository interface {
	GetActive(tx *gorm.DB, tipoEmpresa string) ([]models.Taxonomy, error)
	GetByID(tx *gorm.DB, id string) (*models.Taxonomy, error)
	Count(tx *gorm.DB) (int64, error)
	Upsert(tx *gorm.DB, taxonomies []models.Taxonomy) error
}

type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new taxonomy repository instance.
func NewTaxonomyRepository() TaxonomyRepository {
	return &taxonomyRepository{
		db: config.DB,
	}
}

// GetActive returns active taxonomies for tipoEmpresa plus those marked AMBAS.
// An empty tipoEmpresa returns every active row.
func (r *taxonomyRepository) GetActive(tx *gorm.DB, tipoEmpresa string) ([]models.Taxonomy, error) {
	q := pick(tx, r.db).Where("Activo = ?", true)
	if tipoEmpresa != "" {
		q = q.Where("Tipo_Empresa = ? OR Tipo_Empresa = ?", tipoEmpresa, models.TipoEmpresaAmbas)
	}
	var taxonomies []models.Taxonomy
	if err := q.Order("Categoria_del_Incidente, Subcategoria_del_Incidente, Id_Incidente").
		Find(&taxonomies).Error; err != nil {
		return nil, err
	}
	return taxonomies, nil
}

func (r *taxonomyRepository) GetByID(tx *gorm.DB, id string) (*models.Taxonomy, error) {
	var taxonomy models.Taxonomy
	if err := pick(tx, r.db).Where("Id_Incidente = ?", id).First(&taxonomy).Error; err != nil {
		return nil, err
	}
	return &taxonomy, nil
}

func (r *taxonomyRepository) Count(tx *gorm.DB) (int64, error) {
	var count int64
	err := pick(tx, r.db).Model(&models.Taxonomy{}).Count(&count).Error
	return count, err
}

func (r *taxonomyRepository) Upsert(tx *gorm.DB, taxonomies []models.Taxonomy) error {
	if len(taxonomies) == 0 {
		return nil
	}
	return pick(tx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "Id_Incidente"}},
		UpdateAll: true,
	}).Create(&taxonomies).Error
}
