package repository

import (
	"time"

	"agentedigitalapi/config"
	"agentedigitalapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SectionRepository provides data access for the dynamic incident form.
type SectionRepository interface {
	GetActiveConfigs(tx *gorm.DB) ([]models.SectionConfig, error)
	GetConfig(tx *gorm.DB, sectionID uint) (*models.SectionConfig, error)
	CountConfigs(tx *gorm.DB) (int64, error)
	UpsertConfigs(tx *gorm.DB, configs []models.SectionConfig) error

	GetData(tx *gorm.DB, incidentID uint) ([]models.SectionData, error)
	GetSectionData(tx *gorm.DB, incidentID, sectionID uint) (*models.SectionData, error)
	SaveData(tx *gorm.DB, data *models.SectionData) error

	GetComments(tx *gorm.DB, incidentID uint) ([]models.SectionComment, error)
	CountActiveComments(tx *gorm.DB, incidentID, sectionID uint) (int64, error)
	MaxCommentNumber(tx *gorm.DB, incidentID, sectionID uint) (int, error)
	AddComment(tx *gorm.DB, c *models.SectionComment) error

	GetFiles(tx *gorm.DB, incidentID uint) ([]models.SectionFile, error)
	GetFile(tx *gorm.DB, incidentID, fileID uint) (*models.SectionFile, error)
	CountActiveFiles(tx *gorm.DB, incidentID, sectionID uint) (int64, error)
	MaxFileNumber(tx *gorm.DB, incidentID, sectionID uint) (int, error)
	AddFile(tx *gorm.DB, f *models.SectionFile) error
	DeactivateFile(tx *gorm.DB, incidentID, fileID uint, user string) error

	AddAudit(tx *gorm.DB, a *models.SectionAudit) error
}

type sectionRepository struct {
	db *gorm.DB
}

// NewSectionRepository creates a new section repository instance.
func NewSectionRepository() SectionRepository {
	return &sectionRepository{
		db: config.DB,
	}
}

func (r *sectionRepository) GetActiveConfigs(tx *gorm.DB) ([]models.SectionConfig, error) {
	var configs []models.SectionConfig
	if err := pick(tx, r.db).Where("Activo = ?", true).
		Order("NumeroOrden, SeccionID").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *sectionRepository) GetConfig(tx *gorm.DB, sectionID uint) (*models.SectionConfig, error) {
	var cfg models.SectionConfig
	if err := pick(tx, r.db).Where("SeccionID = ?", sectionID).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *sectionRepository) CountConfigs(tx *gorm.DB) (int64, error) {
	var count int64
	err := pick(tx, r.db).Model(&models.SectionConfig{}).Count(&count).Error
	return count, err
}

func (r *sectionRepository) UpsertConfigs(tx *gorm.DB, configs []models.SectionConfig) error {
	if len(configs) == 0 {
		return nil
	}
	return pick(tx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "SeccionID"}},
		UpdateAll: true,
	}).Create(&configs).Error
}

func (r *sectionRepository) GetData(tx *gorm.DB, incidentID uint) ([]models.SectionData, error) {
	var data []models.SectionData
	err := pick(tx, r.db).Where("IncidenteID = ?", incidentID).Order("SeccionID").Find(&data).Error
	return data, err
}

func (r *sectionRepository) GetSectionData(tx *gorm.DB, incidentID, sectionID uint) (*models.SectionData, error) {
	var data models.SectionData
	if err := pick(tx, r.db).Where("IncidenteID = ? AND SeccionID = ?", incidentID, sectionID).
		First(&data).Error; err != nil {
		return nil, err
	}
	return &data, nil
}

// SaveData inserts or replaces the row keyed by (IncidenteID, SeccionID).
func (r *sectionRepository) SaveData(tx *gorm.DB, data *models.SectionData) error {
	return pick(tx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "IncidenteID"}, {Name: "SeccionID"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"DatosJSON", "EstadoSeccion", "PorcentajeCompletado", "FechaActualizacion", "ActualizadoPor",
		}),
	}).Create(data).Error
}

func (r *sectionRepository) GetComments(tx *gorm.DB, incidentID uint) ([]models.SectionComment, error) {
	var comments []models.SectionComment
	err := pick(tx, r.db).Where("IncidenteID = ? AND Activo = ?", incidentID, true).
		Order("SeccionID, NumeroComentario").Find(&comments).Error
	return comments, err
}

func (r *sectionRepository) CountActiveComments(tx *gorm.DB, incidentID, sectionID uint) (int64, error) {
	var count int64
	err := pick(tx, r.db).Model(&models.SectionComment{}).
		Where("IncidenteID = ? AND SeccionID = ? AND Activo = ?", incidentID, sectionID, true).
		Count(&count).Error
	return count, err
}

func (r *sectionRepository) MaxCommentNumber(tx *gorm.DB, incidentID, sectionID uint) (int, error) {
	var max *int
	err := pick(tx, r.db).Model(&models.SectionComment{}).
		Where("IncidenteID = ? AND SeccionID = ?", incidentID, sectionID).
		Select("MAX(NumeroComentario)").Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *sectionRepository) AddComment(tx *gorm.DB, c *models.SectionComment) error {
	return pick(tx, r.db).Create(c).Error
}

func (r *sectionRepository) GetFiles(tx *gorm.DB, incidentID uint) ([]models.SectionFile, error) {
	var files []models.SectionFile
	err := pick(tx, r.db).Where("IncidenteID = ? AND Activo = ?", incidentID, true).
		Order("SeccionID, NumeroArchivo").Find(&files).Error
	return files, err
}

func (r *sectionRepository) GetFile(tx *gorm.DB, incidentID, fileID uint) (*models.SectionFile, error) {
	var f models.SectionFile
	if err := pick(tx, r.db).Where("ArchivoID = ? AND IncidenteID = ?", fileID, incidentID).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *sectionRepository) CountActiveFiles(tx *gorm.DB, incidentID, sectionID uint) (int64, error) {
	var count int64
	err := pick(tx, r.db).Model(&models.SectionFile{}).
		Where("IncidenteID = ? AND SeccionID = ? AND Activo = ?", incidentID, sectionID, true).
		Count(&count).Error
	return count, err
}

func (r *sectionRepository) MaxFileNumber(tx *gorm.DB, incidentID, sectionID uint) (int, error) {
	var max *int
	err := pick(tx, r.db).Model(&models.SectionFile{}).
		Where("IncidenteID = ? AND SeccionID = ?", incidentID, sectionID).
		Select("MAX(NumeroArchivo)").Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *sectionRepository) AddFile(tx *gorm.DB, f *models.SectionFile) error {
	return pick(tx, r.db).Create(f).Error
}

func (r *sectionRepository) DeactivateFile(tx *gorm.DB, incidentID, fileID uint, user string) error {
	now := time.Now()
	return pick(tx, r.db).Model(&models.SectionFile{}).
		Where("ArchivoID = ? AND IncidenteID = ?", fileID, incidentID).
		Updates(map[string]interface{}{
			"Activo":           false,
			"FechaEliminacion": &now,
			"EliminadoPor":     user,
		}).Error
}

func (r *sectionRepository) AddAudit(tx *gorm.DB, a *models.SectionAudit) error {
	return pick(tx, r.db).Create(a).Error
}
