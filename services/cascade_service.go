package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"agentedigitalapi/config"
	"agentedigitalapi/pkg/events"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/utils"
)

// DeletionDetails describes what a cascade removed.
type DeletionDetails struct {
	TablasAfectadas       map[string]int64 `json:"tablas_afectadas"`
	ArchivosEliminados    int              `json:"archivos_eliminados"`
	ArchivosNoEncontrados int              `json:"archivos_no_encontrados"`
	TemporalesEliminados  int              `json:"temporales_eliminados"`
}

// DeletionResult is returned after an incident is removed with its children.
type DeletionResult struct {
	Mensaje     string          `json:"mensaje"`
	IncidenteID uint            `json:"incidente_id"`
	EmpresaID   uint            `json:"empresa_id"`
	Detalles    DeletionDetails `json:"detalles"`
}

type cascadeStep struct {
	table string
	where string
}

const (
	byIncident         = "IncidenteID = ?"
	byIncidentCategory = "IncidenteCategoriaID IN (SELECT IncidenteCategoriaID FROM IncidentesCategorias WHERE IncidenteID = ?)"
	byIncidentReport   = "ReporteAnciID IN (SELECT ReporteAnciID FROM ReportesANCI WHERE IncidenteID = ?)"
)

// cascadeOrder deletes children before parents. Tables missing from the
// schema are skipped.
var cascadeOrder = []cascadeStep{
	{"ComentariosIncidenteCategoria", byIncidentCategory},
	{"EvidenciasIncidenteCategoria", byIncidentCategory},
	{"IncidentesCategorias", byIncident},
	{"EVIDENCIAS_TAXONOMIA", byIncident},
	{"COMENTARIOS_TAXONOMIA", byIncident},
	{"INCIDENTE_TAXONOMIA", byIncident},
	{"EvidenciasIncidentes", byIncident},
	{"HistorialIncidentes", byIncident},
	{"INCIDENTES_COMENTARIOS", byIncident},
	{"INCIDENTES_ARCHIVOS", byIncident},
	{"INCIDENTES_SECCIONES_DATOS", byIncident},
	{"AnciNotificaciones", byIncident},
	{"AnciAutorizaciones", byIncident},
	{"AnciPlazos", byIncident},
	{"AnciEnvios", byIncidentReport},
	{"ReportesANCI", byIncident},
	{"INFORMES_ANCI", byIncident},
	{"INCIDENTES_AUDITORIA", byIncident},
	{"AuditoriaIncidentes", byIncident},
	{"ArchivosTemporales", "EntidadTipo = 'Incidente' AND EntidadID = ?"},
	{"Incidentes", byIncident},
}

// fileSources are read before deleting to find the physical files of an incident.
var fileSources = []cascadeStep{
	{"EvidenciasIncidentes", byIncident},
	{"EvidenciasIncidenteCategoria", byIncidentCategory},
	{"EVIDENCIAS_TAXONOMIA", byIncident},
	{"INCIDENTES_ARCHIVOS", byIncident},
}

// CascadeService removes an incident and everything that references it.
type CascadeService interface {
	Delete(ctx context.Context, incidentID uint) (*DeletionResult, error)
}

type cascadeService struct {
	baseRepo     repository.BaseRepository
	incidentRepo repository.IncidentRepository
}

// NewCascadeService creates a new cascade service instance.
func NewCascadeService() CascadeService {
	return &cascadeService{
		baseRepo:     repository.NewBaseRepository(),
		incidentRepo: repository.NewIncidentRepository(),
	}
}

// NewCascadeServiceWithDeps creates a service instance with injected dependencies.
func NewCascadeServiceWithDeps(baseRepo repository.BaseRepository, incidentRepo repository.IncidentRepository) CascadeService {
	return &cascadeService{baseRepo: baseRepo, incidentRepo: incidentRepo}
}

func (s *cascadeService) Delete(ctx context.Context, incidentID uint) (*DeletionResult, error) {
	logger.Debugf("Deleting incident %d with all dependent rows", incidentID)
	incident, err := getIncident(s.incidentRepo, nil, incidentID)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, src := range fileSources {
		if !s.baseRepo.HasTable(nil, src.table) {
			continue
		}
		found, err := s.baseRepo.PluckStrings(nil, src.table, "RutaArchivo", src.where, incidentID)
		if err != nil {
			return nil, fmt.Errorf("failed to collect files of incident %d: %w", incidentID, err)
		}
		paths = append(paths, found...)
	}

	affected := map[string]int64{}
	tx := s.baseRepo.Begin()
	for _, step := range cascadeOrder {
		if !s.baseRepo.HasTable(tx, step.table) {
			logger.Debugf("Table %s not present, skipping", step.table)
			continue
		}
		n, err := s.baseRepo.DeleteWhere(tx, step.table, step.where, incidentID)
		if err != nil {
			tx.Rollback()
			logger.Errorf("Cascade delete of incident %d failed at %s: %v", incidentID, step.table, err)
			return nil, fmt.Errorf("failed to delete incident %d: %w", incidentID, err)
		}
		if n > 0 {
			affected[step.table] = n
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit deletion of incident %d: %w", incidentID, err)
	}

	details := DeletionDetails{TablasAfectadas: affected}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		removed, err := utils.RemoveFileAndEmptyParent(p)
		switch {
		case err != nil:
			logger.Warnf("Failed to remove file %s of incident %d: %v", p, incidentID, err)
		case removed:
			details.ArchivosEliminados++
		default:
			details.ArchivosNoEncontrados++
		}
	}
	details.TemporalesEliminados = removeIncidentTemps(incidentID, incident.IDVisible)

	logger.Infof("Deleted incident %d: %d tables, %d files removed, %d not found",
		incidentID, len(affected), details.ArchivosEliminados, details.ArchivosNoEncontrados)
	events.Emit(ctx, events.SubjectIncidentDeleted, map[string]interface{}{
		"incidente_id": incidentID,
		"empresa_id":   incident.EmpresaID,
	})

	return &DeletionResult{
		Mensaje:     fmt.Sprintf("Incidente %d eliminado completamente", incidentID),
		IncidenteID: incidentID,
		EmpresaID:   incident.EmpresaID,
		Detalles:    details,
	}, nil
}

// removeIncidentTemps deletes the draft seeds of an incident and its snapshot directory.
func removeIncidentTemps(incidentID uint, idVisible string) int {
	removed := 0
	entries, err := os.ReadDir(config.Cfg.TempDir)
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to read temp dir %s: %v", config.Cfg.TempDir, err)
	}
	tag := fmt.Sprintf("incidente_%d", incidentID)
	for _, e := range entries {
		name := e.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if (idVisible != "" && strings.HasPrefix(name, idVisible)) || stem == tag || strings.HasPrefix(name, tag+"_") {
			if err := os.Remove(filepath.Join(config.Cfg.TempDir, name)); err == nil {
				removed++
			}
		}
	}
	snapDir := filepath.Join(config.Cfg.SnapshotDir, fmt.Sprint(incidentID))
	if _, err := os.Stat(snapDir); err == nil {
		if err := os.RemoveAll(snapDir); err != nil {
			logger.Warnf("Failed to remove snapshots of incident %d: %v", incidentID, err)
		} else {
			removed++
		}
	}
	return removed
}
