package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
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

	"gorm.io/gorm"
)

const (
	maxIDVisibleLength = 50
	seedStateOriginal  = "semilla_original"
	seedStateBase      = "semilla_base"
)

// IncidentCreated is returned after creating an incident from the full form.
type IncidentCreated struct {
	Success         bool   `json:"success"`
	IncidenteID     uint   `json:"incidente_id"`
	IndiceUnico     string `json:"indice_unico"`
	ArchivoTemporal string `json:"archivo_temporal,omitempty"`
	Mensaje         string `json:"mensaje"`
}

// IncidentDetail is an incident with its company and classification.
type IncidentDetail struct {
	models.Incident
	Empresa          *CompanySummary      `json:"empresa"`
	Taxonomias       []TaxonomyAssignment `json:"taxonomias"`
	TotalEvidencias  int                  `json:"total_evidencias"`
	TotalComentarios int                  `json:"total_comentarios"`
}

// IncidentStats is the completeness summary of an incident.
type IncidentStats struct {
	TotalEvidencias  int `json:"TotalEvidencias"`
	TotalComentarios int `json:"TotalComentarios"`
	Completitud      int `json:"Completitud"`
}

// IncidentUpdated is returned by the edit form update.
type IncidentUpdated struct {
	Success                bool   `json:"success"`
	Mensaje                string `json:"mensaje"`
	IncidenteID            uint   `json:"incidente_id"`
	CamposActualizados     int    `json:"campos_actualizados"`
	TaxonomiasActualizadas bool   `json:"taxonomias_actualizadas"`
	ArchivosEliminados     int    `json:"archivos_eliminados"`
}

// IncidentService implements the incident lifecycle outside the dynamic form.
type IncidentService interface {
	// Create validates the full form, assigns the visible index, stores the
	// incident with its taxonomies and writes the draft seed.
	Create(ctx context.Context, req dto.IncidentCreate) (*IncidentCreated, error)

	// QuickCreate opens an incident for a company with only a title.
	QuickCreate(ctx context.Context, companyID uint, req dto.IncidentQuickCreate) (*models.Incident, error)

	Get(ctx context.Context, id uint) (*IncidentDetail, error)

	// Update applies edit-form keys ("1.2") or column names, records one
	// history row per changed value and handles taxonomy replacement and file
	// removal in the same transaction.
	Update(ctx context.Context, id uint, datos map[string]interface{}, usuario string) (*IncidentUpdated, error)

	Stats(ctx context.Context, id uint) (*IncidentStats, error)

	// SaveDraft overwrites the draft seed identified by indice_unico.
	SaveDraft(ctx context.Context, datos map[string]interface{}) error
}

type incidentService struct {
	baseRepo     repository.BaseRepository
	incidentRepo repository.IncidentRepository
	companyRepo  repository.CompanyRepository
	sectionRepo  repository.SectionRepository
}

// NewIncidentService creates a new incident service instance.
func NewIncidentService() IncidentService {
	return &incidentService{
		baseRepo:     repository.NewBaseRepository(),
		incidentRepo: repository.NewIncidentRepository(),
		companyRepo:  repository.NewCompanyRepository(),
		sectionRepo:  repository.NewSectionRepository(),
	}
}

// NewIncidentServiceWithDeps creates a service instance with injected dependencies.
func NewIncidentServiceWithDeps(
	baseRepo repository.BaseRepository,
	incidentRepo repository.IncidentRepository,
	companyRepo repository.CompanyRepository,
	sectionRepo repository.SectionRepository,
) IncidentService {
	return &incidentService{
		baseRepo:     baseRepo,
		incidentRepo: incidentRepo,
		companyRepo:  companyRepo,
		sectionRepo:  sectionRepo,
	}
}

// getIncident loads an incident and converts a missing row into ErrNotFound.
func getIncident(repo repository.IncidentRepository, tx *gorm.DB, id uint) (*models.Incident, error) {
	incident, err := repo.GetByID(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Incidente %d no encontrado", id)
		}
		return nil, fmt.Errorf("failed to get incident %d: %w", id, err)
	}
	return incident, nil
}

// BuildIDVisible renders {correlativo}_{rut sin DV}_{modulo}_{submodulo}_{descripcion},
// truncated to 50 characters.
func BuildIDVisible(next uint, rut, modulo, submodulo, descripcion string) string {
	idx := fmt.Sprintf("%d_%s_%s_%s_%s", next, utils.RUTWithoutDV(rut), modulo, submodulo, descripcion)
	if len(idx) > maxIDVisibleLength {
		idx = idx[:maxIDVisibleLength]
	}
	return idx
}

// nextIDVisible reserves the visible index of the next incident inside tx.
func nextIDVisible(repo repository.IncidentRepository, tx *gorm.DB, rut, descripcion string) (string, error) {
	maxID, err := repo.MaxID(tx)
	if err != nil {
		return "", fmt.Errorf("failed to read next incident id: %w", err)
	}
	return BuildIDVisible(maxID+1, rut, "1", "1", descripcion), nil
}

// TaxonomyComment renders the Comentarios column of a taxonomy assignment.
func TaxonomyComment(justificacion, descripcion string) string {
	return fmt.Sprintf("Justificación: %s\nDescripción del problema: %s", justificacion, descripcion)
}

func requiredIncidentFields(req dto.IncidentCreate) []struct{ name, value string } {
	return []struct{ name, value string }{
		{"tipo_registro", req.TipoRegistro},
		{"titulo_incidente", req.TituloIncidente},
		{"fecha_deteccion", req.FechaDeteccion},
		{"fecha_ocurrencia", req.FechaOcurrencia},
		{"criticidad", req.Criticidad},
		{"descripcion_detallada", req.DescripcionDetallada},
		{"impacto_preliminar", req.ImpactoPreliminar},
		{"sistemas_afectados", req.SistemasAfectados},
		{"servicios_interrumpidos", req.ServiciosInterrumpidos},
		{"tipo_amenaza", req.TipoAmenaza},
		{"origen_ataque", req.OrigenAtaque},
		{"medidas_contencion", req.MedidasContencion},
	}
}

func (s *incidentService) Create(ctx context.Context, req dto.IncidentCreate) (*IncidentCreated, error) {
	var detalles []string
	if req.EmpresaID == 0 {
		detalles = append(detalles, "Campo requerido faltante: empresa_id")
	}
	for _, f := range requiredIncidentFields(req) {
		if strings.TrimSpace(f.value) == "" {
			detalles = append(detalles, "Campo requerido faltante: "+f.name)
		}
	}

	var company *models.Company
	if req.EmpresaID > 0 {
		c, err := getCompany(s.companyRepo, nil, req.EmpresaID)
		if err != nil {
			return nil, err
		}
		company = c
	}
	tipoEmpresa := strings.ToUpper(strings.TrimSpace(req.TipoEmpresa))
	if tipoEmpresa == "" && company != nil {
		tipoEmpresa = company.TipoEmpresa
	}
	taxonomies := req.AllTaxonomies()
	if (tipoEmpresa == models.TipoEmpresaOIV || tipoEmpresa == models.TipoEmpresaPSE) && len(taxonomies) == 0 {
		detalles = append(detalles, "Debe seleccionar al menos una taxonomía para empresas OIV/PSE")
	}
	if len(detalles) > 0 {
		return nil, &utils.ValidationError{Message: "Campos requeridos faltantes", Detalles: detalles}
	}

	now := time.Now()
	deteccion := now
	if t, err := utils.ParseFlexibleDate(req.FechaDeteccion); err == nil {
		deteccion = t
	} else {
		logger.Warnf("Unparseable fecha_deteccion %q, using now", req.FechaDeteccion)
	}
	ocurrencia := deteccion
	if strings.TrimSpace(req.FechaOcurrencia) != "" {
		if t, err := utils.ParseFlexibleDate(req.FechaOcurrencia); err == nil {
			ocurrencia = t
		} else {
			logger.Warnf("Unparseable fecha_ocurrencia %q, using detection date", req.FechaOcurrencia)
		}
	}
	usuario := defaultString(req.Usuario, "Sistema")

	tx := s.baseRepo.Begin()
	idVisible, err := nextIDVisible(s.incidentRepo, tx, company.RUT, "INCIDENTE_NUEVO")
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	incident := &models.Incident{
		EmpresaID:              req.EmpresaID,
		IDVisible:              idVisible,
		TipoRegistro:           req.TipoRegistro,
		Titulo:                 req.TituloIncidente,
		FechaDeteccion:         &deteccion,
		FechaOcurrencia:        &ocurrencia,
		Criticidad:             req.Criticidad,
		AlcanceGeografico:      req.AlcanceGeografico,
		DescripcionInicial:     req.DescripcionDetallada,
		AnciImpactoPreliminar:  req.ImpactoPreliminar,
		SistemasAfectados:      req.SistemasAfectados,
		ServiciosInterrumpidos: req.ServiciosInterrumpidos,
		AnciTipoAmenaza:        req.TipoAmenaza,
		OrigenIncidente:        req.OrigenAtaque,
		ResponsableCliente:     req.ResponsableCliente,
		AccionesInmediatas:     req.MedidasContencion,
		MedidasContencion:      req.MedidasContencion,
		CausaRaiz:              req.AnalisisCausaRaiz,
		LeccionesAprendidas:    req.LeccionesAprendidas,
		PlanMejora:             req.RecomendacionesMejora,
		SolicitarCSIRT:         req.SolicitarCSIRT,
		TipoFlujo:              req.TipoFlujo,
		EstadoActual:           models.EstadoAbierto,
		CreadoPor:              usuario,
		FechaCreacion:          now,
	}
	if err := s.incidentRepo.Create(tx, incident); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}

	for _, t := range taxonomies {
		if strings.TrimSpace(t.ID) == "" {
			continue
		}
		if err := s.incidentRepo.AddTaxonomy(tx, &models.IncidentTaxonomy{
			IncidenteID:     incident.IncidenteID,
			IdTaxonomia:     t.ID,
			Comentarios:     TaxonomyComment(t.Justificacion, t.DescripcionProblema),
			FechaAsignacion: now,
			CreadoPor:       usuario,
		}); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to assign taxonomy %s: %w", t.ID, err)
		}
	}

	seedPath, err := writeSeed(idVisible, req, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		removeQuietly(seedPath)
		return nil, fmt.Errorf("failed to commit incident: %w", err)
	}

	logger.Infof("Created incident %d (%s) for company %d with %d taxonomies",
		incident.IncidenteID, idVisible, req.EmpresaID, len(taxonomies))
	events.Emit(ctx, events.SubjectIncidentCreated, map[string]interface{}{
		"incidente_id": incident.IncidenteID,
		"empresa_id":   incident.EmpresaID,
		"indice_unico": idVisible,
		"criticidad":   incident.Criticidad,
	})

	return &IncidentCreated{
		Success:         true,
		IncidenteID:     incident.IncidenteID,
		IndiceUnico:     idVisible,
		ArchivoTemporal: seedPath,
		Mensaje:         "Incidente creado exitosamente",
	}, nil
}

// writeSeed stores the submitted form as TEMP_DIR/{indice}.json.
func writeSeed(indice string, req dto.IncidentCreate, now time.Time) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode incident seed: %w", err)
	}
	seed := map[string]interface{}{}
	if err := json.Unmarshal(raw, &seed); err != nil {
		return "", fmt.Errorf("failed to encode incident seed: %w", err)
	}
	seed["timestamp_creacion"] = now.Format(time.RFC3339)
	seed["estado_temporal"] = seedStateOriginal
	seed["indice_unico"] = indice

	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode incident seed: %w", err)
	}
	path, err := utils.WriteFileAtomic(config.Cfg.TempDir, indice+".json", data)
	if err != nil {
		return "", fmt.Errorf("failed to write incident seed: %w", err)
	}
	return path, nil
}

func (s *incidentService) QuickCreate(ctx context.Context, companyID uint, req dto.IncidentQuickCreate) (*models.Incident, error) {
	titulo := strings.TrimSpace(req.Titulo)
	if titulo == "" {
		return nil, utils.InvalidInputf("titulo es requerido")
	}
	company, err := getCompany(s.companyRepo, nil, companyID)
	if err != nil {
		return nil, err
	}
	criticidad := req.Criticidad
	if criticidad == "" {
		criticidad = models.CriticidadMedia
	}

	now := time.Now()
	tx := s.baseRepo.Begin()
	idVisible, err := nextIDVisible(s.incidentRepo, tx, company.RUT, "INCIDENTE_NUEVO")
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	incident := &models.Incident{
		EmpresaID:          companyID,
		IDVisible:          idVisible,
		Titulo:             titulo,
		DescripcionInicial: req.Descripcion,
		Criticidad:         criticidad,
		TipoFlujo:          req.TipoFlujo,
		EstadoActual:       models.EstadoAbierto,
		FechaDeteccion:     &now,
		FechaOcurrencia:    &now,
		CreadoPor:          defaultString(req.Usuario, "Sistema"),
		FechaCreacion:      now,
	}
	if err := s.incidentRepo.Create(tx, incident); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit incident: %w", err)
	}

	logger.Infof("Created incident %d (%s) for company %d", incident.IncidenteID, idVisible, companyID)
	events.Emit(ctx, events.SubjectIncidentCreated, map[string]interface{}{
		"incidente_id": incident.IncidenteID,
		"empresa_id":   companyID,
		"indice_unico": idVisible,
	})
	return incident, nil
}

func (s *incidentService) Get(ctx context.Context, id uint) (*IncidentDetail, error) {
	incident, err := getIncident(s.incidentRepo, nil, id)
	if err != nil {
		return nil, err
	}
	detail := &IncidentDetail{Incident: *incident}

	if company, err := s.companyRepo.GetByID(nil, incident.EmpresaID); err == nil {
		detail.Empresa = &CompanySummary{
			EmpresaID:   company.EmpresaID,
			RazonSocial: company.RazonSocial,
			TipoEmpresa: company.TipoEmpresa,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get company of incident %d: %w", id, err)
	}

	rows, err := s.incidentRepo.GetTaxonomies(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomies of incident %d: %w", id, err)
	}
	detail.Taxonomias = taxonomyAssignments(rows)

	counts, err := s.counts(id)
	if err != nil {
		return nil, err
	}
	detail.TotalEvidencias = counts.evidencias
	detail.TotalComentarios = counts.comentarios
	return detail, nil
}

type incidentCounts struct {
	evidencias  int
	comentarios int
	taxonomias  int
}

func (s *incidentService) counts(id uint) (incidentCounts, error) {
	var c incidentCounts
	files, err := s.sectionRepo.GetFiles(nil, id)
	if err != nil {
		return c, fmt.Errorf("failed to load section files of incident %d: %w", id, err)
	}
	taxEvidence, err := s.incidentRepo.GetTaxonomyEvidence(nil, id)
	if err != nil {
		return c, fmt.Errorf("failed to load taxonomy evidence of incident %d: %w", id, err)
	}
	evidence, err := s.incidentRepo.GetEvidence(nil, id)
	if err != nil {
		return c, fmt.Errorf("failed to load evidence of incident %d: %w", id, err)
	}
	comments, err := s.sectionRepo.GetComments(nil, id)
	if err != nil {
		return c, fmt.Errorf("failed to load section comments of incident %d: %w", id, err)
	}
	taxComments, err := s.incidentRepo.GetTaxonomyComments(nil, id)
	if err != nil {
		return c, fmt.Errorf("failed to load taxonomy comments of incident %d: %w", id, err)
	}
	taxonomias, err := s.incidentRepo.CountTaxonomies(nil, id)
	if err != nil {
		return c, fmt.Errorf("failed to count taxonomies of incident %d: %w", id, err)
	}
	c.evidencias = len(files) + len(taxEvidence) + len(evidence)
	c.comentarios = len(comments) + len(taxComments)
	c.taxonomias = int(taxonomias)
	return c, nil
}

// completenessFields are the main columns scored by Stats.
func completenessFields(i *models.Incident) []string {
	date := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.String()
	}
	return []string{
		i.Titulo, i.TipoRegistro, date(i.FechaDeteccion), date(i.FechaOcurrencia),
		i.Criticidad, i.AlcanceGeografico, i.DescripcionInicial,
		i.AnciImpactoPreliminar, i.SistemasAfectados, i.ServiciosInterrumpidos,
		i.OrigenIncidente, i.AnciTipoAmenaza, i.ResponsableCliente,
		i.AccionesInmediatas, i.CausaRaiz, i.LeccionesAprendidas, i.PlanMejora,
	}
}

// Completeness scores 17 main fields plus taxonomies (2), evidence (1) and comments (1) out of 21.
func Completeness(i *models.Incident, taxonomias, evidencias, comentarios int) int {
	fields := completenessFields(i)
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	if taxonomias > 0 {
		filled += 2
	}
	if evidencias > 0 {
		filled++
	}
	if comentarios > 0 {
		filled++
	}
	pct := filled * 100 / (len(fields) + 4)
	if pct > 100 {
		pct = 100
	}
	return pct
}

func (s *incidentService) Stats(ctx context.Context, id uint) (*IncidentStats, error) {
	incident, err := getIncident(s.incidentRepo, nil, id)
	if err != nil {
		return nil, err
	}
	c, err := s.counts(id)
	if err != nil {
		return nil, err
	}
	return &IncidentStats{
		TotalEvidencias:  c.evidencias,
		TotalComentarios: c.comentarios,
		Completitud:      Completeness(incident, c.taxonomias, c.evidencias, c.comentarios),
	}, nil
}

// incidentFormColumns maps the numbered keys of the edit form to columns.
var incidentFormColumns = map[string]string{
	"1.1":                     "TipoRegistro",
	"1.2":                     "Titulo",
	"1.3":                     "FechaDeteccion",
	"1.4":                     "FechaOcurrencia",
	"1.5":                     "Criticidad",
	"1.6":                     "OrigenIncidente",
	"1.7.solicitar_csirt":     "SolicitarCSIRT",
	"1.7.tipo_apoyo":          "TipoApoyoCSIRT",
	"1.7.urgencia":            "UrgenciaCSIRT",
	"1.7.observaciones_csirt": "ObservacionesCSIRT",
	"2.1":                     "DescripcionInicial",
	"2.2":                     "SistemasAfectados",
	"2.3":                     "UsuariosAfectados",
	"2.4":                     "TiempoIncidencia",
	"2.5":                     "ImpactoPreliminar",
	"2.6":                     "AlcanceGeografico",
	"3.1":                     "AnciImpactoPreliminar",
	"3.2":                     "AnciTipoAmenaza",
	"3.3":                     "AnciAgenteAmenaza",
	"3.4":                     "AnciVulnerabilidadExplotada",
	"3.5":                     "AnciDatosComprometidos",
	"3.6":                     "AnciAfectacionTerceros",
	"4.1":                     "AccionesInmediatas",
	"4.2":                     "ResponsableCliente",
	"4.3":                     "NivelEscalamiento",
	"4.4":                     "MedidasContencion",
	"4.5":                     "PlanComunicacion",
	"4.6":                     "NotificacionesRealizadas",
	"5.1":                     "CausaRaiz",
	"5.2":                     "SolucionImplementada",
	"5.2.2":                   "DescripcionCompleta",
	"5.3":                     "MedidasPreventivas",
	"5.4":                     "ProximosPasos",
	"5.5":                     "LeccionesAprendidas",
	"5.6":                     "DocumentacionAdjunta",
	"6.1":                     "FechaResolucion",
	"6.2":                     "EstadoFinal",
	"6.3":                     "PersonaCierre",
	"6.4":                     "AprobacionCierre",
	"6.5":                     "ObservacionesFinales",
	"6.6":                     "RequiereAcciones",
	"7.1":                     "DescripcionEstadoActual",
	"7.2":                     "EfectosColaterales",
	"7.3":                     "ProgramaRestauracion",
}

// Columns accepted by name in addition to the form keys.
var incidentExtraColumns = map[string]bool{
	"ServiciosInterrumpidos": true,
	"PlanMejora":             true,
	"EstadoActual":           true,
	"TipoFlujo":              true,
}

var incidentBoolColumns = map[string]bool{"SolicitarCSIRT": true, "RequiereAcciones": true}

var incidentDateColumns = map[string]bool{"FechaDeteccion": true, "FechaOcurrencia": true, "FechaResolucion": true}

// IncidentColumnFor resolves an edit-form key or a column name.
func IncidentColumnFor(key string) (string, bool) {
	if col, ok := incidentFormColumns[key]; ok {
		return col, true
	}
	if incidentExtraColumns[key] {
		return key, true
	}
	for _, col := range incidentFormColumns {
		if col == key {
			return col, true
		}
	}
	return "", false
}

func (s *incidentService) Update(ctx context.Context, id uint, datos map[string]interface{}, usuario string) (*IncidentUpdated, error) {
	usuario = defaultString(usuario, "Sistema")

	tx := s.baseRepo.Begin()
	incident, err := getIncident(s.incidentRepo, tx, id)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	previous, err := columnValues(incident)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now()
	fields := map[string]interface{}{}
	var history []models.IncidentHistory
	for key, raw := range datos {
		col, ok := IncidentColumnFor(key)
		if !ok {
			continue
		}
		value, display, err := incidentColumnValue(col, raw)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		fields[col] = value
		if old := previous[col]; old != display {
			history = append(history, models.IncidentHistory{
				IncidenteID:     id,
				CampoModificado: col,
				ValorAnterior:   old,
				ValorNuevo:      display,
				Usuario:         usuario,
				FechaCambio:     now,
			})
		}
	}

	changed := len(fields)
	fields["FechaActualizacion"] = &now
	fields["ModificadoPor"] = usuario
	if err := s.incidentRepo.Updates(tx, id, fields); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update incident %d: %w", id, err)
	}
	for i := range history {
		if err := s.incidentRepo.AddHistory(tx, &history[i]); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to record incident history: %w", err)
		}
	}

	result := &IncidentUpdated{Success: true, Mensaje: "Incidente actualizado exitosamente", IncidenteID: id, CamposActualizados: changed}

	if raw, ok := datos["taxonomias_seleccionadas"]; ok {
		var selected []dto.TaxonomySelection
		if err := remarshal(raw, &selected); err != nil {
			tx.Rollback()
			return nil, utils.InvalidInputf("taxonomias_seleccionadas inválidas: %v", err)
		}
		rows := make([]models.IncidentTaxonomy, 0, len(selected))
		for _, t := range selected {
			if strings.TrimSpace(t.ID) == "" {
				continue
			}
			rows = append(rows, models.IncidentTaxonomy{
				IncidenteID:     id,
				IdTaxonomia:     t.ID,
				Comentarios:     TaxonomyComment(t.Justificacion, t.DescripcionProblema),
				FechaAsignacion: now,
				CreadoPor:       usuario,
			})
		}
		if err := s.incidentRepo.ReplaceTaxonomies(tx, id, rows); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to replace taxonomies of incident %d: %w", id, err)
		}
		result.TaxonomiasActualizadas = true
	}

	var removedPaths []string
	if raw, ok := datos["archivos_eliminados"]; ok {
		var deleted []dto.DeletedFile
		if err := remarshal(raw, &deleted); err != nil {
			tx.Rollback()
			return nil, utils.InvalidInputf("archivos_eliminados inválidos: %v", err)
		}
		for _, d := range deleted {
			if d.ID == 0 {
				continue
			}
			file, err := s.sectionRepo.GetFile(tx, id, d.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Warnf("Section file %d of incident %d not found, skipping", d.ID, id)
					continue
				}
				tx.Rollback()
				return nil, fmt.Errorf("failed to get section file %d: %w", d.ID, err)
			}
			if err := s.sectionRepo.DeactivateFile(tx, id, d.ID, usuario); err != nil {
				tx.Rollback()
				return nil, fmt.Errorf("failed to deactivate section file %d: %w", d.ID, err)
			}
			if file.RutaArchivo != "" {
				removedPaths = append(removedPaths, file.RutaArchivo)
			}
			result.ArchivosEliminados++
		}
	}

	audit, _ := json.Marshal(map[string]interface{}{"campos_actualizados": changed})
	if err := s.sectionRepo.AddAudit(tx, &models.SectionAudit{
		IncidenteID: id,
		TipoAccion:  "ACTUALIZAR",
		DatosNuevos: string(audit),
		Usuario:     usuario,
		FechaAccion: now,
	}); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to audit incident update: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit incident update: %w", err)
	}

	for _, p := range removedPaths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warnf("Failed to remove section file %s: %v", p, err)
		}
	}
	logger.Infof("Updated incident %d: %d fields, %d history rows, %d files removed",
		id, changed, len(history), result.ArchivosEliminados)
	return result, nil
}

// columnValues renders every column of the incident as text, keyed by column name.
func columnValues(incident *models.Incident) (map[string]string, error) {
	raw, err := json.Marshal(incident)
	if err != nil {
		return nil, fmt.Errorf("failed to encode incident: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode incident: %w", err)
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = displayValue(v)
	}
	return out, nil
}

// incidentColumnValue converts a form value into the value stored in col and
// its text form for history comparison.
func incidentColumnValue(col string, raw interface{}) (interface{}, string, error) {
	switch {
	case incidentBoolColumns[col]:
		b := toBool(raw)
		return b, strconv.FormatBool(b), nil
	case incidentDateColumns[col]:
		text := strings.TrimSpace(displayValue(raw))
		if text == "" {
			return nil, "", nil
		}
		t, err := utils.ParseFlexibleDate(text)
		if err != nil {
			return nil, "", utils.InvalidInputf("fecha inválida para %s: %q", col, text)
		}
		return &t, t.Format(time.RFC3339), nil
	default:
		text := displayValue(raw)
		return text, text, nil
	}
}

func displayValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func toBool(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "si", "sí", "on", "yes":
			return true
		}
	}
	return false
}

// remarshal decodes a loosely typed JSON value into out.
func remarshal(in, out interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *incidentService) SaveDraft(ctx context.Context, datos map[string]interface{}) error {
	indice, _ := datos["indice_unico"].(string)
	indice = strings.TrimSpace(indice)
	if indice == "" {
		return utils.InvalidInputf("Índice único no proporcionado")
	}
	if utils.HasPathSeparator(indice) {
		return utils.InvalidInputf("Índice único inválido")
	}
	name := indice + ".json"
	path := filepath.Join(config.Cfg.TempDir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return utils.NotFoundf("Archivo temporal no encontrado")
		}
		return fmt.Errorf("failed to stat draft %s: %w", path, err)
	}

	datos["estado_temporal"] = seedStateBase
	datos["timestamp_actualizacion"] = time.Now().Format(time.RFC3339)
	data, err := json.MarshalIndent(datos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if _, err := utils.WriteFileAtomic(config.Cfg.TempDir, name, data); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	logger.Infof("Saved draft %s", indice)
	return nil
}
