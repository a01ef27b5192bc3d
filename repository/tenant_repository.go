package repository

import (
	"agentedigitalapi/config"
	"agentedigitalapi/models"

	"gorm.io/gorm"
)

// TenantRepository provides data access operations for tenants.
type TenantRepository interface {
	GetAll(tx *gorm.DB) ([]models.Tenant, error)
	GetByID(tx *gorm.DB, id uint) (*models.Tenant, error)
	Create(tx *gorm.DB, tenant *models.Tenant) error
}

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository instance.
func NewTenantRepository() TenantRepository {
	return &tenantRepository{
		db: config.DB,
	}
}

func (r *tenantRepository) GetAll(tx *gorm.DB) ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := pick(tx, r.db).Order("RazonSocial").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *tenantRepository) GetByID(tx *gorm.DB, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := pick(tx, r.db).Where("InquilinoID = ?", id).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) Create(tx *gorm.DB, tenant *models.Tenant) error {
	return pick(tx, r.db).Create(tenant).Error
}
