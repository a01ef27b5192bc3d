package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"agentedigitalapi/config"
	"agentedigitalapi/models"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/utils"

	"github.com/google/uuid"
)

// Snapshot kinds.
const (
	SnapshotActual   = "actual"
	SnapshotEditando = "editando"
	SnapshotManual   = "manual"

	snapshotVersion = "2.0"
	snapshotPrefix  = "fotografia_"
	snapshotLatest  = "ultima"
)

// SnapshotMetadata identifies a snapshot.
type SnapshotMetadata struct {
	Version     string `json:"version"`
	SnapshotID  string `json:"snapshot_id"`
	IncidenteID uint   `json:"incidente_id"`
	Fecha       string `json:"fecha"`
	Tipo        string `json:"tipo"`
}

// SnapshotSection is the stored data of one dynamic section.
type SnapshotSection struct {
	SeccionID  uint                   `json:"seccion_id"`
	Estado     string                 `json:"estado"`
	Porcentaje int                    `json:"porcentaje"`
	Datos      map[string]interface{} `json:"datos"`
}

// SnapshotSummary counts what the snapshot holds.
type SnapshotSummary struct {
	TotalEvidencias          int `json:"total_evidencias"`
	TotalTaxonomias          int `json:"total_taxonomias"`
	TotalEvidenciasTaxonomia int `json:"total_evidencias_taxonomia"`
	TotalComentarios         int `json:"total_comentarios"`
	TotalSecciones           int `json:"total_secciones"`
}

// Snapshot is a point-in-time copy of an incident and its children.
type Snapshot struct {
	Metadata              SnapshotMetadata          `json:"metadata"`
	DatosPrincipales      map[string]interface{}    `json:"datos_principales"`
	EvidenciasGenerales   []models.IncidentEvidence `json:"evidencias_generales"`
	Taxonomias            []TaxonomyAssignment      `json:"taxonomias"`
	EvidenciasTaxonomias  []models.TaxonomyEvidence `json:"evidencias_taxonomias"`
	ComentariosTaxonomias []models.TaxonomyComment  `json:"comentarios_taxonomias"`
	Secciones             []SnapshotSection         `json:"secciones"`
	Resumen               SnapshotSummary           `json:"resumen"`
}

// SnapshotFile describes a stored snapshot.
type SnapshotFile struct {
	Nombre   string  `json:"nombre"`
	Tipo     string  `json:"tipo"`
	Fecha    string  `json:"fecha"`
	TamanoKB float64 `json:"tamano_kb"`
	modTime  time.Time
}

// SnapshotService builds and stores incident snapshots.
type SnapshotService interface {
	// Current returns the latest "actual" snapshot, or builds and stores an
	// "editando" one when none exists.
	Current(ctx context.Context, incidentID uint) (*Snapshot, error)
	Create(ctx context.Context, incidentID uint, tipo string) (*Snapshot, error)
	History(ctx context.Context, incidentID uint) ([]SnapshotFile, error)

	// Export writes a tar.gz of the incident's snapshot directory to w.
	Export(ctx context.Context, incidentID uint, w io.Writer) error
}

type snapshotService struct {
	incidentRepo repository.IncidentRepository
	companyRepo  repository.CompanyRepository
	sectionRepo  repository.SectionRepository
}

// NewSnapshotService creates a new snapshot service instance.
func NewSnapshotService() SnapshotService {
	return &snapshotService{
		incidentRepo: repository.NewIncidentRepository(),
		companyRepo:  repository.NewCompanyRepository(),
		sectionRepo:  repository.NewSectionRepository(),
	}
}

// NewSnapshotServiceWithDeps creates a service instance with injected dependencies.
func NewSnapshotServiceWithDeps(
	incidentRepo repository.IncidentRepository,
	companyRepo repository.CompanyRepository,
	sectionRepo repository.SectionRepository,
) SnapshotService {
	return &snapshotService{incidentRepo: incidentRepo, companyRepo: companyRepo, sectionRepo: sectionRepo}
}

func snapshotDir(incidentID uint) string {
	return filepath.Join(config.Cfg.SnapshotDir, fmt.Sprint(incidentID))
}

func (s *snapshotService) build(incidentID uint, tipo string) (*Snapshot, error) {
	incident, err := getIncident(s.incidentRepo, nil, incidentID)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(incident)
	if err != nil {
		return nil, fmt.Errorf("failed to encode incident %d: %w", incidentID, err)
	}
	principal := map[string]interface{}{}
	if err := json.Unmarshal(raw, &principal); err != nil {
		return nil, fmt.Errorf("failed to decode incident %d: %w", incidentID, err)
	}
	if company, err := s.companyRepo.GetByID(nil, incident.EmpresaID); err == nil {
		principal["RazonSocial"] = company.RazonSocial
		principal["TipoEmpresa"] = company.TipoEmpresa
		principal["RUT"] = company.RUT
	}

	evidence, err := s.incidentRepo.GetEvidence(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evidence of incident %d: %w", incidentID, err)
	}
	taxRows, err := s.incidentRepo.GetTaxonomies(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomies of incident %d: %w", incidentID, err)
	}
	taxEvidence, err := s.incidentRepo.GetTaxonomyEvidence(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy evidence of incident %d: %w", incidentID, err)
	}
	taxComments, err := s.incidentRepo.GetTaxonomyComments(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy comments of incident %d: %w", incidentID, err)
	}
	data, err := s.sectionRepo.GetData(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections of incident %d: %w", incidentID, err)
	}
	sections := make([]SnapshotSection, 0, len(data))
	for _, d := range data {
		datos := map[string]interface{}{}
		if d.DatosJSON != "" {
			_ = json.Unmarshal([]byte(d.DatosJSON), &datos)
		}
		sections = append(sections, SnapshotSection{
			SeccionID:  d.SeccionID,
			Estado:     d.EstadoSeccion,
			Porcentaje: d.PorcentajeCompletado,
			Datos:      datos,
		})
	}

	if evidence == nil {
		evidence = []models.IncidentEvidence{}
	}
	if taxEvidence == nil {
		taxEvidence = []models.TaxonomyEvidence{}
	}
	if taxComments == nil {
		taxComments = []models.TaxonomyComment{}
	}
	return &Snapshot{
		Metadata: SnapshotMetadata{
			Version:     snapshotVersion,
			SnapshotID:  uuid.NewString(),
			IncidenteID: incidentID,
			Fecha:       time.Now().Format(time.RFC3339),
			Tipo:        tipo,
		},
		DatosPrincipales:      principal,
		EvidenciasGenerales:   evidence,
		Taxonomias:            taxonomyAssignments(taxRows),
		EvidenciasTaxonomias:  taxEvidence,
		ComentariosTaxonomias: taxComments,
		Secciones:             sections,
		Resumen: SnapshotSummary{
			TotalEvidencias:          len(evidence),
			TotalTaxonomias:          len(taxRows),
			TotalEvidenciasTaxonomia: len(taxEvidence),
			TotalComentarios:         len(taxComments),
			TotalSecciones:           len(sections),
		},
	}, nil
}

// save writes the snapshot with a timestamped name and refreshes the _ultima copy.
func (s *snapshotService) save(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	dir := snapshotDir(snap.Metadata.IncidenteID)
	name := fmt.Sprintf("%s%s_%s.json", snapshotPrefix, snap.Metadata.Tipo, utils.FormatTimestamp(time.Now()))
	if _, err := utils.WriteFileAtomic(dir, name, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	latest := fmt.Sprintf("%s%s_%s.json", snapshotPrefix, snap.Metadata.Tipo, snapshotLatest)
	if _, err := utils.WriteFileAtomic(dir, latest, data); err != nil {
		return fmt.Errorf("failed to write latest snapshot: %w", err)
	}
	logger.Infof("Saved %s snapshot %s of incident %d", snap.Metadata.Tipo, snap.Metadata.SnapshotID, snap.Metadata.IncidenteID)
	return nil
}

func (s *snapshotService) Current(ctx context.Context, incidentID uint) (*Snapshot, error) {
	if _, err := getIncident(s.incidentRepo, nil, incidentID); err != nil {
		return nil, err
	}
	latest := filepath.Join(snapshotDir(incidentID), fmt.Sprintf("%s%s_%s.json", snapshotPrefix, SnapshotActual, snapshotLatest))
	if raw, err := os.ReadFile(latest); err == nil {
		var snap Snapshot
		if err := json.Unmarshal(raw, &snap); err == nil {
			return &snap, nil
		}
		logger.Warnf("Ignoring unreadable snapshot %s", latest)
	}

	snap, err := s.build(incidentID, SnapshotEditando)
	if err != nil {
		return nil, err
	}
	if err := s.save(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *snapshotService) Create(ctx context.Context, incidentID uint, tipo string) (*Snapshot, error) {
	tipo = strings.ToLower(strings.TrimSpace(tipo))
	if tipo == "" {
		tipo = SnapshotManual
	}
	if utils.HasPathSeparator(tipo) {
		return nil, utils.InvalidInputf("tipo de fotografía inválido")
	}
	snap, err := s.build(incidentID, tipo)
	if err != nil {
		return nil, err
	}
	if err := s.save(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *snapshotService) History(ctx context.Context, incidentID uint) ([]SnapshotFile, error) {
	if _, err := getIncident(s.incidentRepo, nil, incidentID); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(snapshotDir(incidentID))
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapshotFile{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshots of incident %d: %w", incidentID, err)
	}
	files := make([]SnapshotFile, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, SnapshotFile{
			Nombre:   name,
			Tipo:     snapshotKind(name),
			Fecha:    info.ModTime().Format(time.RFC3339),
			TamanoKB: utils.Round2(float64(info.Size()) / 1024),
			modTime:  info.ModTime(),
		})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].Nombre > files[j].Nombre
		}
		return files[i].modTime.After(files[j].modTime)
	})
	return files, nil
}

// snapshotKind extracts the tipo from fotografia_{tipo}_{suffix}.json.
func snapshotKind(name string) string {
	stem := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), ".json")
	if i := strings.Index(stem, "_"); i > 0 {
		return stem[:i]
	}
	return stem
}

func (s *snapshotService) Export(ctx context.Context, incidentID uint, w io.Writer) error {
	if _, err := getIncident(s.incidentRepo, nil, incidentID); err != nil {
		return err
	}
	dir := snapshotDir(incidentID)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return utils.NotFoundf("El incidente %d no tiene fotografías", incidentID)
		}
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	return utils.WriteDirectoryTarGz(w, dir, fmt.Sprintf("incidente_%d", incidentID))
}
