package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"agentedigitalapi/config"
	"agentedigitalapi/models"
	"agentedigitalapi/pkg/events"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// emptySectionColor replaces the section color while a section has no progress.
const emptySectionColor = "#6c757d"

// DynamicIncidentCreated is returned after creating an incident through the section form.
type DynamicIncidentCreated struct {
	Success          bool   `json:"success"`
	IncidenteID      uint   `json:"incidente_id"`
	IndiceUnico      string `json:"indice_unico"`
	SeccionesCreadas int    `json:"secciones_creadas"`
	TipoEmpresa      string `json:"tipo_empresa"`
}

// SectionSaved is returned after saving a section.
type SectionSaved struct {
	Success    bool   `json:"success"`
	Estado     string `json:"estado"`
	Porcentaje int    `json:"porcentaje"`
}

// SectionView is one section of a loaded incident.
type SectionView struct {
	SeccionID        uint                    `json:"seccion_id"`
	Codigo           string                  `json:"codigo"`
	Tipo             string                  `json:"tipo"`
	Orden            int                     `json:"orden"`
	Titulo           string                  `json:"titulo"`
	Descripcion      string                  `json:"descripcion"`
	Color            string                  `json:"color"`
	Icono            string                  `json:"icono"`
	Datos            map[string]interface{}  `json:"datos"`
	Estado           string                  `json:"estado"`
	Porcentaje       int                     `json:"porcentaje"`
	TotalComentarios int                     `json:"total_comentarios"`
	TotalArchivos    int                     `json:"total_archivos"`
	Comentarios      []models.SectionComment `json:"comentarios"`
	Archivos         []models.SectionFile    `json:"archivos"`
	TieneContenido   bool                    `json:"tiene_contenido"`
}

// DynamicIncident is an incident with all of its applicable sections.
type DynamicIncident struct {
	Incidente             models.Incident `json:"incidente"`
	TipoEmpresa           string          `json:"tipo_empresa"`
	Secciones             []SectionView   `json:"secciones"`
	TotalSecciones        int             `json:"total_secciones"`
	SeccionesConContenido int             `json:"secciones_con_contenido"`
}

// SectionSummaryItem is the progress of one section.
type SectionSummaryItem struct {
	SeccionID        uint   `json:"seccion_id"`
	Codigo           string `json:"codigo"`
	Titulo           string `json:"titulo"`
	Estado           string `json:"estado"`
	Porcentaje       int    `json:"porcentaje"`
	TotalComentarios int    `json:"total_comentarios"`
	TotalArchivos    int    `json:"total_archivos"`
}

// SectionSummary is the progress overview of a dynamic incident.
type SectionSummary struct {
	IncidenteID       uint                 `json:"incidente_id"`
	Secciones         []SectionSummaryItem `json:"secciones"`
	PorcentajeGeneral int                  `json:"porcentaje_general"`
}

// SectionState derives the state and completion percentage of section data.
// A value counts as filled when it is not empty, zero or false.
func SectionState(datos map[string]interface{}) (string, int) {
	total := len(datos)
	if total == 0 {
		return models.EstadoSeccionVacio, 0
	}
	filled := 0
	for _, v := range datos {
		if isFilled(v) {
			filled++
		}
	}
	pct := filled * 100 / total
	switch {
	case filled == 0:
		return models.EstadoSeccionVacio, pct
	case filled == total:
		return models.EstadoSeccionCompleto, pct
	default:
		return models.EstadoSeccionParcial, pct
	}
}

func isFilled(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case bool:
		return x
	case float64:
		return x != 0
	case []interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return len(x) > 0
	}
	return true
}

// SectionService drives the dynamic incident form.
type SectionService interface {
	// CompanySections returns the active sections that apply to a company.
	CompanySections(ctx context.Context, companyID uint) ([]models.SectionConfig, error)
	Create(ctx context.Context, req dto.DynamicIncidentCreate) (*DynamicIncidentCreated, error)
	Save(ctx context.Context, incidentID, sectionID uint, req dto.SectionSave) (*SectionSaved, error)
	AddComment(ctx context.Context, incidentID, sectionID uint, req dto.SectionCommentCreate) (*models.SectionComment, error)
	UploadFile(ctx context.Context, incidentID, sectionID uint, file dto.SectionFileUpload) (*models.SectionFile, error)
	Load(ctx context.Context, incidentID uint) (*DynamicIncident, error)
	Summary(ctx context.Context, incidentID uint) (*SectionSummary, error)
}

type sectionService struct {
	baseRepo     repository.BaseRepository
	sectionRepo  repository.SectionRepository
	incidentRepo repository.IncidentRepository
	companyRepo  repository.CompanyRepository
}

// NewSectionService creates a new section service instance.
func NewSectionService() SectionService {
	return &sectionService{
		baseRepo:     repository.NewBaseRepository(),
		sectionRepo:  repository.NewSectionRepository(),
		incidentRepo: repository.NewIncidentRepository(),
		companyRepo:  repository.NewCompanyRepository(),
	}
}

// NewSectionServiceWithDeps creates a service instance with injected dependencies.
func NewSectionServiceWithDeps(
	baseRepo repository.BaseRepository,
	sectionRepo repository.SectionRepository,
	incidentRepo repository.IncidentRepository,
	companyRepo repository.CompanyRepository,
) SectionService {
	return &sectionService{baseRepo: baseRepo, sectionRepo: sectionRepo, incidentRepo: incidentRepo, companyRepo: companyRepo}
}

func (s *sectionService) applicable(tx *gorm.DB, tipoEmpresa string) ([]models.SectionConfig, error) {
	configs, err := s.sectionRepo.GetActiveConfigs(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to load section configs: %w", err)
	}
	out := make([]models.SectionConfig, 0, len(configs))
	for _, c := range configs {
		if c.AppliesTo(tipoEmpresa) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *sectionService) CompanySections(ctx context.Context, companyID uint) ([]models.SectionConfig, error) {
	company, err := getCompany(s.companyRepo, nil, companyID)
	if err != nil {
		return nil, err
	}
	return s.applicable(nil, company.TipoEmpresa)
}

func (s *sectionService) getConfig(tx *gorm.DB, sectionID uint) (*models.SectionConfig, error) {
	cfg, err := s.sectionRepo.GetConfig(tx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Sección %d no encontrada", sectionID)
		}
		return nil, fmt.Errorf("failed to get section %d: %w", sectionID, err)
	}
	return cfg, nil
}

func (s *sectionService) audit(tx *gorm.DB, incidentID uint, sectionID *uint, accion, usuario string, datos interface{}) error {
	raw, err := json.Marshal(datos)
	if err != nil {
		return fmt.Errorf("failed to encode audit data: %w", err)
	}
	return s.sectionRepo.AddAudit(tx, &models.SectionAudit{
		IncidenteID: incidentID,
		SeccionID:   sectionID,
		TipoAccion:  accion,
		DatosNuevos: string(raw),
		Usuario:     usuario,
		FechaAccion: time.Now(),
	})
}

// initialSectionData picks the initial values of a fixed section from
// datos_iniciales, keyed by section code or id.
func initialSectionData(cfg models.SectionConfig, datos map[string]interface{}) map[string]interface{} {
	if cfg.TipoSeccion != models.TipoSeccionFija {
		return nil
	}
	for _, key := range []string{cfg.CodigoSeccion, strconv.FormatUint(uint64(cfg.SeccionID), 10)} {
		if v, ok := datos[key].(map[string]interface{}); ok && len(v) > 0 {
			return v
		}
	}
	return nil
}

func (s *sectionService) Create(ctx context.Context, req dto.DynamicIncidentCreate) (*DynamicIncidentCreated, error) {
	titulo := strings.TrimSpace(req.Titulo)
	if titulo == "" || req.EmpresaID == 0 {
		return nil, utils.InvalidInputf("empresa_id y titulo son requeridos")
	}
	company, err := getCompany(s.companyRepo, nil, req.EmpresaID)
	if err != nil {
		return nil, err
	}
	usuario := defaultString(req.Usuario, "Sistema")
	now := time.Now()

	tx := s.baseRepo.Begin()
	sections, err := s.applicable(tx, company.TipoEmpresa)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	idVisible, err := nextIDVisible(s.incidentRepo, tx, company.RUT, "INCIDENTE_DINAMICO")
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	incident := &models.Incident{
		EmpresaID:       req.EmpresaID,
		IDVisible:       idVisible,
		Titulo:          titulo,
		Criticidad:      models.CriticidadMedia,
		EstadoActual:    models.EstadoAbierto,
		FechaDeteccion:  &now,
		FechaOcurrencia: &now,
		CreadoPor:       usuario,
		FechaCreacion:   now,
	}
	if err := s.incidentRepo.Create(tx, incident); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}

	for _, cfg := range sections {
		initial := initialSectionData(cfg, req.DatosIniciales)
		estado, pct := models.EstadoSeccionVacio, 0
		if len(initial) > 0 {
			estado, pct = models.EstadoSeccionParcial, 50
		} else {
			initial = map[string]interface{}{}
		}
		raw, err := json.Marshal(initial)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to encode section %d: %w", cfg.SeccionID, err)
		}
		if err := s.sectionRepo.SaveData(tx, &models.SectionData{
			IncidenteID:          incident.IncidenteID,
			SeccionID:            cfg.SeccionID,
			DatosJSON:            string(raw),
			EstadoSeccion:        estado,
			PorcentajeCompletado: pct,
			FechaActualizacion:   now,
			ActualizadoPor:       usuario,
		}); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create section %d: %w", cfg.SeccionID, err)
		}
	}

	if err := s.audit(tx, incident.IncidenteID, nil, "CREAR", usuario, map[string]interface{}{
		"titulo":     titulo,
		"secciones":  len(sections),
		"empresa_id": req.EmpresaID,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit dynamic incident: %w", err)
	}

	logger.Infof("Created dynamic incident %d (%s) with %d sections", incident.IncidenteID, idVisible, len(sections))
	events.Emit(ctx, events.SubjectIncidentCreated, map[string]interface{}{
		"incidente_id": incident.IncidenteID,
		"empresa_id":   req.EmpresaID,
		"indice_unico": idVisible,
	})
	return &DynamicIncidentCreated{
		Success:          true,
		IncidenteID:      incident.IncidenteID,
		IndiceUnico:      idVisible,
		SeccionesCreadas: len(sections),
		TipoEmpresa:      company.TipoEmpresa,
	}, nil
}

func (s *sectionService) Save(ctx context.Context, incidentID, sectionID uint, req dto.SectionSave) (*SectionSaved, error) {
	usuario := defaultString(req.Usuario, "Sistema")
	datos := req.Datos
	if datos == nil {
		datos = map[string]interface{}{}
	}
	raw, err := json.Marshal(datos)
	if err != nil {
		return nil, utils.InvalidInputf("datos inválidos: %v", err)
	}
	estado, pct := SectionState(datos)

	tx := s.baseRepo.Begin()
	if _, err := getIncident(s.incidentRepo, tx, incidentID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := s.getConfig(tx, sectionID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.sectionRepo.SaveData(tx, &models.SectionData{
		IncidenteID:          incidentID,
		SeccionID:            sectionID,
		DatosJSON:            string(raw),
		EstadoSeccion:        estado,
		PorcentajeCompletado: pct,
		FechaActualizacion:   time.Now(),
		ActualizadoPor:       usuario,
	}); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to save section %d of incident %d: %w", sectionID, incidentID, err)
	}
	if err := s.audit(tx, incidentID, &sectionID, "ACTUALIZAR_SECCION", usuario, map[string]interface{}{
		"estado":     estado,
		"porcentaje": pct,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit section save: %w", err)
	}
	logger.Debugf("Saved section %d of incident %d: %s %d%%", sectionID, incidentID, estado, pct)
	return &SectionSaved{Success: true, Estado: estado, Porcentaje: pct}, nil
}

func (s *sectionService) AddComment(ctx context.Context, incidentID, sectionID uint, req dto.SectionCommentCreate) (*models.SectionComment, error) {
	text := strings.TrimSpace(req.Comentario)
	if text == "" {
		return nil, utils.InvalidInputf("comentario es requerido")
	}
	usuario := defaultString(req.Usuario, "Sistema")
	tipo := defaultString(req.TipoComentario, "GENERAL")

	tx := s.baseRepo.Begin()
	if _, err := getIncident(s.incidentRepo, tx, incidentID); err != nil {
		tx.Rollback()
		return nil, err
	}
	cfg, err := s.getConfig(tx, sectionID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	active, err := s.sectionRepo.CountActiveComments(tx, incidentID, sectionID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	if int(active) >= cfg.MaxComentarios {
		tx.Rollback()
		return nil, utils.LimitReachedf("Se alcanzó el límite de %d comentarios para esta sección", cfg.MaxComentarios)
	}
	last, err := s.sectionRepo.MaxCommentNumber(tx, incidentID, sectionID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read comment number: %w", err)
	}

	c := &models.SectionComment{
		IncidenteID:      incidentID,
		SeccionID:        sectionID,
		NumeroComentario: last + 1,
		Comentario:       text,
		TipoComentario:   tipo,
		CreadoPor:        usuario,
		FechaCreacion:    time.Now(),
		Activo:           true,
	}
	if err := s.sectionRepo.AddComment(tx, c); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	if err := s.audit(tx, incidentID, &sectionID, "AGREGAR_COMENTARIO", usuario, map[string]interface{}{
		"comentario": text,
		"tipo":       tipo,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit comment: %w", err)
	}
	return c, nil
}

func (s *sectionService) UploadFile(ctx context.Context, incidentID, sectionID uint, file dto.SectionFileUpload) (*models.SectionFile, error) {
	if len(file.Content) == 0 {
		return nil, utils.InvalidInputf("archivo vacío")
	}
	original := utils.SanitizeFilename(file.FileName)
	if original == "" {
		return nil, utils.InvalidInputf("nombre de archivo inválido")
	}
	usuario := defaultString(file.Usuario, "Sistema")

	incident, err := getIncident(s.incidentRepo, nil, incidentID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.getConfig(nil, sectionID)
	if err != nil {
		return nil, err
	}
	if len(file.Content) > cfg.MaxSizeMB*1024*1024 {
		return nil, utils.InvalidInputf("El archivo excede el límite de %dMB", cfg.MaxSizeMB)
	}

	now := time.Now()
	dir := filepath.Join(config.Cfg.UploadDir,
		fmt.Sprintf("empresa_%d", incident.EmpresaID),
		"incidente_"+incident.IDVisible,
		fmt.Sprintf("seccion_%d", sectionID))
	name := utils.SectionFileName(now, file.Content, uuid.NewString()[:8], strings.ToLower(filepath.Ext(original)))
	contentType := defaultString(file.ContentType, "application/octet-stream")

	tx := s.baseRepo.Begin()
	active, err := s.sectionRepo.CountActiveFiles(tx, incidentID, sectionID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to count files: %w", err)
	}
	if int(active) >= cfg.MaxArchivos {
		tx.Rollback()
		return nil, utils.LimitReachedf("Se alcanzó el límite de %d archivos para esta sección", cfg.MaxArchivos)
	}
	last, err := s.sectionRepo.MaxFileNumber(tx, incidentID, sectionID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read file number: %w", err)
	}

	path, err := utils.WriteFileAtomic(dir, name, file.Content)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to store section file: %w", err)
	}
	row := &models.SectionFile{
		IncidenteID:    incidentID,
		SeccionID:      sectionID,
		NumeroArchivo:  last + 1,
		NombreOriginal: original,
		NombreServidor: name,
		RutaArchivo:    path,
		TamanoKB:       float64(len(file.Content) / 1024),
		TipoArchivo:    contentType,
		HashArchivo:    utils.SHA256Hex(file.Content),
		Descripcion:    file.Descripcion,
		SubidoPor:      usuario,
		FechaSubida:    now,
		Activo:         true,
	}
	if err := s.sectionRepo.AddFile(tx, row); err != nil {
		tx.Rollback()
		removeQuietly(path)
		return nil, fmt.Errorf("failed to register section file: %w", err)
	}
	if err := s.audit(tx, incidentID, &sectionID, "SUBIR_ARCHIVO", usuario, map[string]interface{}{
		"archivo":   original,
		"tamano_kb": len(file.Content) / 1024,
	}); err != nil {
		tx.Rollback()
		removeQuietly(path)
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		removeQuietly(path)
		return nil, fmt.Errorf("failed to commit section file: %w", err)
	}
	logger.Infof("Stored file %s for section %d of incident %d", name, sectionID, incidentID)
	return row, nil
}

type sectionChildren struct {
	data     map[uint]models.SectionData
	comments map[uint][]models.SectionComment
	files    map[uint][]models.SectionFile
}

func (s *sectionService) children(incidentID uint) (*sectionChildren, error) {
	data, err := s.sectionRepo.GetData(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load section data of incident %d: %w", incidentID, err)
	}
	comments, err := s.sectionRepo.GetComments(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments of incident %d: %w", incidentID, err)
	}
	files, err := s.sectionRepo.GetFiles(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load files of incident %d: %w", incidentID, err)
	}
	c := &sectionChildren{
		data:     make(map[uint]models.SectionData, len(data)),
		comments: map[uint][]models.SectionComment{},
		files:    map[uint][]models.SectionFile{},
	}
	for _, d := range data {
		c.data[d.SeccionID] = d
	}
	for _, cm := range comments {
		c.comments[cm.SeccionID] = append(c.comments[cm.SeccionID], cm)
	}
	for _, f := range files {
		c.files[f.SeccionID] = append(c.files[f.SeccionID], f)
	}
	return c, nil
}

func (s *sectionService) Load(ctx context.Context, incidentID uint) (*DynamicIncident, error) {
	incident, err := getIncident(s.incidentRepo, nil, incidentID)
	if err != nil {
		return nil, err
	}
	tipo := ""
	if company, err := s.companyRepo.GetByID(nil, incident.EmpresaID); err == nil {
		tipo = company.TipoEmpresa
	}
	sections, err := s.applicable(nil, tipo)
	if err != nil {
		return nil, err
	}
	ch, err := s.children(incidentID)
	if err != nil {
		return nil, err
	}

	out := &DynamicIncident{Incidente: *incident, TipoEmpresa: tipo, Secciones: make([]SectionView, 0, len(sections))}
	for _, cfg := range sections {
		d := ch.data[cfg.SeccionID]
		datos := map[string]interface{}{}
		if d.DatosJSON != "" {
			if err := json.Unmarshal([]byte(d.DatosJSON), &datos); err != nil {
				logger.Warnf("Invalid section data for incident %d section %d: %v", incidentID, cfg.SeccionID, err)
			}
		}
		comments := ch.comments[cfg.SeccionID]
		files := ch.files[cfg.SeccionID]
		if comments == nil {
			comments = []models.SectionComment{}
		}
		if files == nil {
			files = []models.SectionFile{}
		}
		color := cfg.ColorIndicador
		if d.PorcentajeCompletado == 0 {
			color = emptySectionColor
		}
		view := SectionView{
			SeccionID:        cfg.SeccionID,
			Codigo:           cfg.CodigoSeccion,
			Tipo:             cfg.TipoSeccion,
			Orden:            cfg.NumeroOrden,
			Titulo:           cfg.Titulo,
			Descripcion:      cfg.Descripcion,
			Color:            color,
			Icono:            cfg.IconoSeccion,
			Datos:            datos,
			Estado:           defaultString(d.EstadoSeccion, models.EstadoSeccionVacio),
			Porcentaje:       d.PorcentajeCompletado,
			TotalComentarios: len(comments),
			TotalArchivos:    len(files),
			Comentarios:      comments,
			Archivos:         files,
			TieneContenido:   len(comments)+len(files) > 0 || len(datos) > 0,
		}
		if view.TieneContenido {
			out.SeccionesConContenido++
		}
		out.Secciones = append(out.Secciones, view)
	}
	out.TotalSecciones = len(out.Secciones)
	return out, nil
}

func (s *sectionService) Summary(ctx context.Context, incidentID uint) (*SectionSummary, error) {
	loaded, err := s.Load(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	summary := &SectionSummary{IncidenteID: incidentID, Secciones: make([]SectionSummaryItem, 0, len(loaded.Secciones))}
	total := 0
	for _, sec := range loaded.Secciones {
		summary.Secciones = append(summary.Secciones, SectionSummaryItem{
			SeccionID:        sec.SeccionID,
			Codigo:           sec.Codigo,
			Titulo:           sec.Titulo,
			Estado:           sec.Estado,
			Porcentaje:       sec.Porcentaje,
			TotalComentarios: sec.TotalComentarios,
			TotalArchivos:    sec.TotalArchivos,
		})
		total += sec.Porcentaje
	}
	if len(loaded.Secciones) > 0 {
		summary.PorcentajeGeneral = total / len(loaded.Secciones)
	}
	return summary, nil
}
