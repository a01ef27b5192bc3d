package repository

import (
	"time"

	"agentedigitalapi/config"
	"agentedigitalapi/models"

	"gorm.io/gorm"
)

// ComplianceWithObligation is a compliance record joined with its obligation text.
type ComplianceWithObligation struct {
	models.ComplianceRecord
	ArticuloNorma               string `gorm:"column:ArticuloNorma" json:"ArticuloNorma"`
	Descripcion                 string `gorm:"column:Descripcion" json:"Descripcion"`
	MedioDeVerificacionSugerido string `gorm:"column:MedioDeVerificacionSugerido" json:"MedioDeVerificacionSugerido"`
}

// ObligationPlanRow is one applicable obligation left-joined with the company's record.
type ObligationPlanRow struct {
	ObligacionID                uint       `gorm:"column:ObligacionID" json:"ObligacionID"`
	ArticuloNorma               string     `gorm:"column:ArticuloNorma" json:"ArticuloNorma"`
	Descripcion                 string     `gorm:"column:Descripcion" json:"Descripcion"`
	MedioDeVerificacionSugerido string     `gorm:"column:MedioDeVerificacionSugerido" json:"MedioDeVerificacionSugerido"`
	AplicaPara                  string     `gorm:"column:AplicaPara" json:"AplicaPara"`
	ContactoTecnicoComercial    string     `gorm:"column:ContactoTecnicoComercial" json:"ContactoTecnicoComercial"`
	CumplimientoID              *uint      `gorm:"column:CumplimientoID" json:"CumplimientoID"`
	Estado                      *string    `gorm:"column:Estado" json:"Estado"`
	PorcentajeAvance            *int       `gorm:"column:PorcentajeAvance" json:"PorcentajeAvance"`
	Responsable                 *string    `gorm:"column:Responsable" json:"Responsable"`
	FechaTermino                *time.Time `gorm:"column:FechaTermino" json:"FechaTermino"`
	Observaciones               *string    `gorm:"column:Observaciones" json:"Observaciones"`
	ObservacionesCiberseguridad *string    `gorm:"column:ObservacionesCiberseguridad" json:"ObservacionesCiberseguridad"`
	ObservacionesLegales        *string    `gorm:"column:ObservacionesLegales" json:"ObservacionesLegales"`
}

// ComplianceRepository provides data access for compliance records and their history.
type ComplianceRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.ComplianceRecord, error)
	GetByCompanyAndObligation(tx *gorm.DB, companyID, obligationID uint) (*models.ComplianceRecord, error)
	GetByCompany(tx *gorm.DB, companyID uint) ([]models.ComplianceRecord, error)
	GetByCompanyWithObligation(tx *gorm.DB, companyID uint) ([]ComplianceWithObligation, error)
	GetUpcomingDeadlines(tx *gorm.DB, companyID uint, limit int) ([]ComplianceWithObligation, error)
	GetObligationPlan(tx *gorm.DB, companyID uint, aplicaPara string) ([]ObligationPlanRow, error)
	Create(tx *gorm.DB, record *models.ComplianceRecord) error
	Updates(tx *gorm.DB, id uint, fields map[string]interface{}) error
	AddHistory(tx *gorm.DB, h *models.ComplianceHistory) error
	GetHistory(tx *gorm.DB, complianceID uint) ([]models.ComplianceHistory, error)
}

type complianceRepository struct {
	db *gorm.DB
}

// NewComplianceRepository creates a new compliance repository instance.
func NewComplianceRepository() ComplianceRepository {
	return &complianceRepository{
		db: config.DB,
	}
}

func (r *complianceRepository) GetByID(tx *gorm.DB, id uint) (*models.ComplianceRecord, error) {
	var record models.ComplianceRecord
	if err := pick(tx, r.db).Where("CumplimientoID = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *complianceRepository) GetByCompanyAndObligation(tx *gorm.DB, companyID, obligationID uint) (*models.ComplianceRecord, error) {
	var record models.ComplianceRecord
	if err := pick(tx, r.db).Where("EmpresaID = ? AND ObligacionID = ?", companyID, obligationID).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *complianceRepository) GetByCompany(tx *gorm.DB, companyID uint) ([]models.ComplianceRecord, error) {
	var records []models.ComplianceRecord
	if err := pick(tx, r.db).Where("EmpresaID = ?", companyID).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *complianceRepository) joined(db *gorm.DB) *gorm.DB {
	return db.Table(models.ComplianceRecord{}.TableName() + " c").
		Select("c.*, o.ArticuloNorma, o.Descripcion, o.MedioDeVerificacionSugerido").
		Joins("INNER JOIN " + models.Obligation{}.TableName() + " o ON o.ObligacionID = c.ObligacionID")
}

func (r *complianceRepository) GetByCompanyWithObligation(tx *gorm.DB, companyID uint) ([]ComplianceWithObligation, error) {
	var rows []ComplianceWithObligation
	if err := r.joined(pick(tx, r.db)).
		Where("c.EmpresaID = ?", companyID).
		Order("o.ArticuloNorma").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *complianceRepository) GetUpcomingDeadlines(tx *gorm.DB, companyID uint, limit int) ([]ComplianceWithObligation, error) {
	var rows []ComplianceWithObligation
	if err := r.joined(pick(tx, r.db)).
		Where("c.EmpresaID = ? AND c.FechaTermino IS NOT NULL AND c.Estado IN ?",
			companyID, []string{models.EstadoPendiente, models.EstadoEnProceso}).
		Order("c.FechaTermino ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetObligationPlan left-joins the applicable obligations with the company's
// records. An empty aplicaPara applies the whole catalog.
func (r *complianceRepository) GetObligationPlan(tx *gorm.DB, companyID uint, aplicaPara string) ([]ObligationPlanRow, error) {
	var rows []ObligationPlanRow
	q := pick(tx, r.db).Table(models.Obligation{}.TableName()+" o").
		Select(`o.ObligacionID, o.ArticuloNorma, o.Descripcion, o.MedioDeVerificacionSugerido,
			o.AplicaPara, o.ContactoTecnicoComercial, c.CumplimientoID, c.Estado, c.PorcentajeAvance,
			c.Responsable, c.FechaTermino, c.Observaciones, c.ObservacionesCiberseguridad,
			c.ObservacionesLegales`).
		Joins("LEFT JOIN "+models.ComplianceRecord{}.TableName()+" c ON c.ObligacionID = o.ObligacionID AND c.EmpresaID = ?", companyID)
	if aplicaPara != "" {
		q = q.Where("o.AplicaPara = ? OR o.AplicaPara = ?", aplicaPara, "Ambos")
	}
	err := q.Order("o.ArticuloNorma").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *complianceRepository) Create(tx *gorm.DB, record *models.ComplianceRecord) error {
	return pick(tx, r.db).Create(record).Error
}

func (r *complianceRepository) Updates(tx *gorm.DB, id uint, fields map[string]interface{}) error {
	return pick(tx, r.db).Model(&models.ComplianceRecord{}).
		Where("CumplimientoID = ?", id).Updates(fields).Error
}

func (r *complianceRepository) AddHistory(tx *gorm.DB, h *models.ComplianceHistory) error {
	return pick(tx, r.db).Create(h).Error
}

func (r *complianceRepository) GetHistory(tx *gorm.DB, complianceID uint) ([]models.ComplianceHistory, error) {
	var history []models.ComplianceHistory
	if err := pick(tx, r.db).Where("CumplimientoID = ?", complianceID).
		Order("FechaCambio DESC, HistorialID DESC").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}
