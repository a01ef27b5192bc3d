package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agentedigitalapi/models"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/utils"

	"gorm.io/gorm"
)

const (
	justificationPrefix = "Justificación: "
	problemPrefix       = "Descripción del problema: "
)

// TaxonomyItem is a catalog taxonomy with its display text.
type TaxonomyItem struct {
	models.Taxonomy
	TextoCompleto string `json:"texto_completo"`
}

// TaxonomyCategory groups catalog taxonomies by category.
type TaxonomyCategory struct {
	Nombre        string         `json:"nombre"`
	Subcategorias []TaxonomyItem `json:"subcategorias"`
}

// TaxonomyTree is the hierarchical view of the catalog.
type TaxonomyTree struct {
	Categorias []TaxonomyCategory `json:"categorias"`
}

// TaxonomyAssignment is an incident taxonomy with its catalog text and the
// justification split out of the stored comment.
type TaxonomyAssignment struct {
	repository.IncidentTaxonomyDetail
	Justificacion       string `json:"justificacion"`
	DescripcionProblema string `json:"descripcion_problema"`
	TextoCompleto       string `json:"texto_completo"`
}

// ParseTaxonomyComment splits a Comentarios value written by TaxonomyComment.
// Text without the known prefixes is returned as the justification.
func ParseTaxonomyComment(c string) (justificacion, descripcion string) {
	for _, line := range strings.Split(c, "\n") {
		switch {
		case strings.HasPrefix(line, justificationPrefix):
			justificacion = strings.TrimPrefix(line, justificationPrefix)
		case strings.HasPrefix(line, problemPrefix):
			descripcion = strings.TrimPrefix(line, problemPrefix)
		}
	}
	if justificacion == "" && descripcion == "" {
		justificacion = strings.TrimSpace(c)
	}
	return justificacion, descripcion
}

func taxonomyText(categoria, subcategoria string) string {
	if subcategoria == "" {
		return categoria
	}
	return categoria + " - " + subcategoria
}

func taxonomyAssignments(rows []repository.IncidentTaxonomyDetail) []TaxonomyAssignment {
	out := make([]TaxonomyAssignment, 0, len(rows))
	for _, r := range rows {
		j, d := ParseTaxonomyComment(r.Comentarios)
		out = append(out, TaxonomyAssignment{
			IncidentTaxonomyDetail: r,
			Justificacion:          j,
			DescripcionProblema:    d,
			TextoCompleto:          taxonomyText(r.CategoriaDelIncidente, r.SubcategoriaDelIncidente),
		})
	}
	return out
}

// TaxonomyService manages the taxonomy catalog and incident classification.
type TaxonomyService interface {
	List(ctx context.Context, tipoEmpresa string) ([]TaxonomyItem, error)
	Tree(ctx context.Context, tipoEmpresa string) (*TaxonomyTree, error)
	IncidentTaxonomies(ctx context.Context, incidentID uint) ([]TaxonomyAssignment, error)
	Assign(ctx context.Context, incidentID uint, req dto.TaxonomyAssign) (*models.IncidentTaxonomy, error)
	Remove(ctx context.Context, incidentID uint, taxonomyID string) error
	Comment(ctx context.Context, incidentID uint, taxonomyID string, req dto.TaxonomyCommentCreate) (*models.TaxonomyComment, error)
}

type taxonomyService struct {
	baseRepo     repository.BaseRepository
	taxonomyRepo repository.TaxonomyRepository
	incidentRepo repository.IncidentRepository
}

// NewTaxonomyService creates a new taxonomy service instance.
func NewTaxonomyService() TaxonomyService {
	return &taxonomyService{
		baseRepo:     repository.NewBaseRepository(),
		taxonomyRepo: repository.NewTaxonomyRepository(),
		incidentRepo: repository.NewIncidentRepository(),
	}
}

// NewTaxonomyServiceWithDeps creates a service instance with injected dependencies.
func NewTaxonomyServiceWithDeps(
	baseRepo repository.BaseRepository,
	taxonomyRepo repository.TaxonomyRepository,
	incidentRepo repository.IncidentRepository,
) TaxonomyService {
	return &taxonomyService{baseRepo: baseRepo, taxonomyRepo: taxonomyRepo, incidentRepo: incidentRepo}
}

func (s *taxonomyService) List(ctx context.Context, tipoEmpresa string) ([]TaxonomyItem, error) {
	tipo := strings.ToUpper(strings.TrimSpace(tipoEmpresa))
	if tipo != "" && !models.IsValidTipoEmpresa(tipo) {
		return nil, utils.InvalidInputf("tipo_empresa debe ser OIV, PSE o AMBAS")
	}
	if tipo == models.TipoEmpresaAmbas {
		tipo = ""
	}
	rows, err := s.taxonomyRepo.GetActive(nil, tipo)
	if err != nil {
		return nil, fmt.Errorf("failed to list taxonomies: %w", err)
	}
	items := make([]TaxonomyItem, 0, len(rows))
	for _, t := range rows {
		items = append(items, TaxonomyItem{
			Taxonomy:      t,
			TextoCompleto: taxonomyText(t.CategoriaDelIncidente, t.SubcategoriaDelIncidente),
		})
	}
	return items, nil
}

func (s *taxonomyService) Tree(ctx context.Context, tipoEmpresa string) (*TaxonomyTree, error) {
	items, err := s.List(ctx, tipoEmpresa)
	if err != nil {
		return nil, err
	}
	tree := &TaxonomyTree{Categorias: []TaxonomyCategory{}}
	index := map[string]int{}
	for _, it := range items {
		name := it.CategoriaDelIncidente
		i, ok := index[name]
		if !ok {
			i = len(tree.Categorias)
			index[name] = i
			tree.Categorias = append(tree.Categorias, TaxonomyCategory{Nombre: name})
		}
		tree.Categorias[i].Subcategorias = append(tree.Categorias[i].Subcategorias, it)
	}
	return tree, nil
}

func (s *taxonomyService) IncidentTaxonomies(ctx context.Context, incidentID uint) ([]TaxonomyAssignment, error) {
	if _, err := getIncident(s.incidentRepo, nil, incidentID); err != nil {
		return nil, err
	}
	rows, err := s.incidentRepo.GetTaxonomies(nil, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list taxonomies of incident %d: %w", incidentID, err)
	}
	return taxonomyAssignments(rows), nil
}

func (s *taxonomyService) Assign(ctx context.Context, incidentID uint, req dto.TaxonomyAssign) (*models.IncidentTaxonomy, error) {
	taxID := strings.TrimSpace(req.IDTaxonomia)
	if taxID == "" {
		return nil, utils.InvalidInputf("id_taxonomia es requerido")
	}

	tx := s.baseRepo.Begin()
	if _, err := getIncident(s.incidentRepo, tx, incidentID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := s.taxonomyRepo.GetByID(tx, taxID); err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Taxonomía %s no encontrada", taxID)
		}
		return nil, fmt.Errorf("failed to get taxonomy %s: %w", taxID, err)
	}
	exists, err := s.incidentRepo.HasTaxonomy(tx, incidentID, taxID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to check taxonomy %s: %w", taxID, err)
	}
	if exists {
		tx.Rollback()
		return nil, utils.Conflictf("La taxonomía %s ya está asignada al incidente", taxID)
	}

	row := &models.IncidentTaxonomy{
		IncidenteID:     incidentID,
		IdTaxonomia:     taxID,
		Comentarios:     TaxonomyComment(req.Justificacion, req.DescripcionProblema),
		FechaAsignacion: time.Now(),
		CreadoPor:       defaultString(req.Usuario, "Sistema"),
	}
	if err := s.incidentRepo.AddTaxonomy(tx, row); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to assign taxonomy %s: %w", taxID, err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit taxonomy assignment: %w", err)
	}
	logger.Infof("Assigned taxonomy %s to incident %d", taxID, incidentID)
	return row, nil
}

func (s *taxonomyService) Remove(ctx context.Context, incidentID uint, taxonomyID string) error {
	if _, err := getIncident(s.incidentRepo, nil, incidentID); err != nil {
		return err
	}
	n, err := s.incidentRepo.RemoveTaxonomy(nil, incidentID, taxonomyID)
	if err != nil {
		return fmt.Errorf("failed to remove taxonomy %s: %w", taxonomyID, err)
	}
	if n == 0 {
		return utils.NotFoundf("La taxonomía %s no está asignada al incidente", taxonomyID)
	}
	logger.Infof("Removed taxonomy %s from incident %d", taxonomyID, incidentID)
	return nil
}

func (s *taxonomyService) Comment(ctx context.Context, incidentID uint, taxonomyID string, req dto.TaxonomyCommentCreate) (*models.TaxonomyComment, error) {
	text := strings.TrimSpace(req.Comentario)
	if text == "" {
		return nil, utils.InvalidInputf("comentario es requerido")
	}
	if _, err := getIncident(s.incidentRepo, nil, incidentID); err != nil {
		return nil, err
	}
	assigned, err := s.incidentRepo.HasTaxonomy(nil, incidentID, taxonomyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check taxonomy %s: %w", taxonomyID, err)
	}
	if !assigned {
		return nil, utils.NotFoundf("La taxonomía %s no está asignada al incidente", taxonomyID)
	}
	c := &models.TaxonomyComment{
		IncidenteID:   incidentID,
		TaxonomiaID:   taxonomyID,
		Comentario:    text,
		FechaCreacion: time.Now(),
		CreadoPor:     defaultString(req.Usuario, "Sistema"),
	}
	if err := s.incidentRepo.AddTaxonomyComment(nil, c); err != nil {
		return nil, fmt.Errorf("failed to add taxonomy comment: %w", err)
	}
	return c, nil
}
