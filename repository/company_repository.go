package repository

import (
	"agentedigitalapi/config"
	"agentedigitalapi/models"

	"gorm.io/gorm"
)

// CompanyWithTenant is a company row joined with its tenant name.
type CompanyWithTenant struct {
	models.Company
	NombreInquilino string `gorm:"column:NombreInquilino" json:"NombreInquilino"`
}

// CompanyRepository provides data access operations for companies.
type CompanyRepository interface {
	GetAll(tx *gorm.DB) ([]CompanyWithTenant, error)
	GetByID(tx *gorm.DB, id uint) (*models.Company, error)
	GetByTenant(tx *gorm.DB, tenantID uint) ([]models.Company, error)
	Create(tx *gorm.DB, company *models.Company) error
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository instance.
func NewCompanyRepository() CompanyRepository {
	return &companyRepository{
		db: config.DB,
	}
}

func (r *companyRepository) GetAll(tx *gorm.DB) ([]CompanyWithTenant, error) {
	var rows []CompanyWithTenant
	err := pick(tx, r.db).Table(models.Company{}.TableName() + " e").
		Select("e.*, i.RazonSocial AS NombreInquilino").
		Joins("LEFT JOIN " + models.Tenant{}.TableName() + " i ON i.InquilinoID = e.InquilinoID").
		Order("e.RazonSocial").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *companyRepository) GetByID(tx *gorm.DB, id uint) (*models.Company, error) {
	var company models.Company
	if err := pick(tx, r.db).Where("EmpresaID = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) GetByTenant(tx *gorm.DB, tenantID uint) ([]models.Company, error) {
	var companies []models.Company
	if err := pick(tx, r.db).Where("InquilinoID = ?", tenantID).
		Order("RazonSocial").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *companyRepository) Create(tx *gorm.DB, company *models.Company) error {
	return pick(tx, r.db).Create(company).Error
}
