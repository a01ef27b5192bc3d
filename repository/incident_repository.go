package repository

import (
	"agentedigitalapi/config"
	"agentedigitalapi/models"

	"gorm.io/gorm"
)

// IncidentTaxonomyDetail is an assignment joined with the catalog text.
type IncidentTaxonomyDetail struct {
	models.IncidentTaxonomy
	Area                     string `gorm:"column:Area" json:"Area"`
	Efecto                   string `gorm:"column:Efecto" json:"Efecto"`
	CategoriaDelIncidente    string `gorm:"column:Categoria_del_Incidente" json:"Categoria_del_Incidente"`
	SubcategoriaDelIncidente string `gorm:"column:Subcategoria_del_Incidente" json:"Subcategoria_del_Incidente"`
	Descripcion              string `gorm:"column:Descripcion" json:"Descripcion"`
}

// IncidentRepository provides data access for incidents and their child rows.
type IncidentRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.Incident, error)
	GetByCompany(tx *gorm.DB, companyID uint) ([]models.Incident, error)
	GetAnciIncidents(tx *gorm.DB, companyID uint) ([]models.Incident, error)
	MaxID(tx *gorm.DB) (uint, error)
	Create(tx *gorm.DB, incident *models.Incident) error
	Updates(tx *gorm.DB, id uint, fields map[string]interface{}) error
	AddHistory(tx *gorm.DB, h *models.IncidentHistory) error

	GetTaxonomies(tx *gorm.DB, incidentID uint) ([]IncidentTaxonomyDetail, error)
	HasTaxonomy(tx *gorm.DB, incidentID uint, taxonomyID string) (bool, error)
	AddTaxonomy(tx *gorm.DB, t *models.IncidentTaxonomy) error
	RemoveTaxonomy(tx *gorm.DB, incidentID uint, taxonomyID string) (int64, error)
	ReplaceTaxonomies(tx *gorm.DB, incidentID uint, rows []models.IncidentTaxonomy) error
	CountTaxonomies(tx *gorm.DB, incidentID uint) (int64, error)

	AddTaxonomyComment(tx *gorm.DB, c *models.TaxonomyComment) error
	GetTaxonomyComments(tx *gorm.DB, incidentID uint) ([]models.TaxonomyComment, error)
	GetTaxonomyEvidence(tx *gorm.DB, incidentID uint) ([]models.TaxonomyEvidence, error)
	GetEvidence(tx *gorm.DB, incidentID uint) ([]models.IncidentEvidence, error)
}

type incidentRepository struct {
	db *gorm.DB
}

// NewIncidentRepository creates a new incident repository instance.
func NewIncidentRepository() IncidentRepository {
	return &incidentRepository{
		db: config.DB,
	}
}

func (r *incidentRepository) GetByID(tx *gorm.DB, id uint) (*models.Incident, error) {
	var incident models.Incident
	if err := pick(tx, r.db).Where("IncidenteID = ?", id).First(&incident).Error; err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepository) GetByCompany(tx *gorm.DB, companyID uint) ([]models.Incident, error) {
	var incidents []models.Incident
	if err := pick(tx, r.db).Where("EmpresaID = ?", companyID).
		Order("FechaCreacion DESC, IncidenteID DESC").Find(&incidents).Error; err != nil {
		return nil, err
	}
	return incidents, nil
}

// GetAnciIncidents lists incidents already declared to ANCI. A zero companyID
// returns every company.
func (r *incidentRepository) GetAnciIncidents(tx *gorm.DB, companyID uint) ([]models.Incident, error) {
	q := pick(tx, r.db).Where("ReporteAnciID IS NOT NULL")
	if companyID > 0 {
		q = q.Where("EmpresaID = ?", companyID)
	}
	var incidents []models.Incident
	if err := q.Order("FechaDeteccion ASC, IncidenteID ASC").Find(&incidents).Error; err != nil {
		return nil, err
	}
	return incidents, nil
}

func (r *incidentRepository) MaxID(tx *gorm.DB) (uint, error) {
	var maxID *uint
	if err := pick(tx, r.db).Model(&models.Incident{}).
		Select("MAX(IncidenteID)").Scan(&maxID).Error; err != nil {
		return 0, err
	}
	if maxID == nil {
		return 0, nil
	}
	return *maxID, nil
}

func (r *incidentRepository) Create(tx *gorm.DB, incident *models.Incident) error {
	return pick(tx, r.db).Create(incident).Error
}

func (r *incidentRepository) Updates(tx *gorm.DB, id uint, fields map[string]interface{}) error {
	return pick(tx, r.db).Model(&models.Incident{}).Where("IncidenteID = ?", id).Updates(fields).Error
}

func (r *incidentRepository) AddHistory(tx *gorm.DB, h *models.IncidentHistory) error {
	return pick(tx, r.db).Create(h).Error
}

func (r *incidentRepository) GetTaxonomies(tx *gorm.DB, incidentID uint) ([]IncidentTaxonomyDetail, error) {
	var rows []IncidentTaxonomyDetail
	err := pick(tx, r.db).Table(models.IncidentTaxonomy{}.TableName()+" it").
		Select(`it.*, t.Area, t.Efecto, t.Categoria_del_Incidente, t.Subcategoria_del_Incidente,
			t.Descripcion`).
		Joins("LEFT JOIN "+models.Taxonomy{}.TableName()+" t ON t.Id_Incidente = it.Id_Taxonomia").
		Where("it.IncidenteID = ?", incidentID).
		Order("it.FechaAsignacion, it.ID").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *incidentRepository) HasTaxonomy(tx *gorm.DB, incidentID uint, taxonomyID string) (bool, error) {
	var count int64
	err := pick(tx, r.db).Model(&models.IncidentTaxonomy{}).
		Where("IncidenteID = ? AND Id_Taxonomia = ?", incidentID, taxonomyID).Count(&count).Error
	return count > 0, err
}

func (r *incidentRepository) AddTaxonomy(tx *gorm.DB, t *models.IncidentTaxonomy) error {
	return pick(tx, r.db).Create(t).Error
}

func (r *incidentRepository) RemoveTaxonomy(tx *gorm.DB, incidentID uint, taxonomyID string) (int64, error) {
	res := pick(tx, r.db).Where("IncidenteID = ? AND Id_Taxonomia = ?", incidentID, taxonomyID).
		Delete(&models.IncidentTaxonomy{})
	return res.RowsAffected, res.Error
}

func (r *incidentRepository) ReplaceTaxonomies(tx *gorm.DB, incidentID uint, rows []models.IncidentTaxonomy) error {
	db := pick(tx, r.db)
	if err := db.Where("IncidenteID = ?", incidentID).Delete(&models.IncidentTaxonomy{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

func (r *incidentRepository) CountTaxonomies(tx *gorm.DB, incidentID uint) (int64, error) {
	var count int64
	err := pick(tx, r.db).Model(&models.IncidentTaxonomy{}).
		Where("IncidenteID = ?", incidentID).Count(&count).Error
	return count, err
}

func (r *incidentRepository) AddTaxonomyComment(tx *gorm.DB, c *models.TaxonomyComment) error {
	return pick(tx, r.db).Create(c).Error
}

func (r *incidentRepository) GetTaxonomyComments(tx *gorm.DB, incidentID uint) ([]models.TaxonomyComment, error) {
	var comments []models.TaxonomyComment
	err := pick(tx, r.db).Where("IncidenteID = ?", incidentID).
		Order("FechaCreacion, ComentarioID").Find(&comments).Error
	return comments, err
}

func (r *incidentRepository) GetTaxonomyEvidence(tx *gorm.DB, incidentID uint) ([]models.TaxonomyEvidence, error) {
	var evidences []models.TaxonomyEvidence
	err := pick(tx, r.db).Where("IncidenteID = ?", incidentID).
		Order("FechaSubida, EvidenciaID").Find(&evidences).Error
	return evidences, err
}

func (r *incidentRepository) GetEvidence(tx *gorm.DB, incidentID uint) ([]models.IncidentEvidence, error) {
	var evidences []models.IncidentEvidence
	err := pick(tx, r.db).Where("IncidenteID = ?", incidentID).
		Order("FechaSubida, EvidenciaID").Find(&evidences).Error
	return evidences, err
}
