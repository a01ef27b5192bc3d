package services

import (
	"context"
	"fmt"
	"strings"

	"agentedigitalapi/models"
	"agentedigitalapi/repository"
	"agentedigitalapi/utils"
)

// ObligationService exposes the obligation catalog.
type ObligationService interface {
	// List returns the catalog. A non-empty tipoEmpresa keeps the obligations
	// that apply to that company type.
	List(ctx context.Context, tipoEmpresa string) ([]models.Obligation, error)
}

type obligationService struct {
	obligationRepo repository.ObligationRepository
}

// NewObligationService creates a new obligation service instance.
func NewObligationService() ObligationService {
	return &obligationService{obligationRepo: repository.NewObligationRepository()}
}

// NewObligationServiceWithDeps creates a service instance with an injected repository.
func NewObligationServiceWithDeps(obligationRepo repository.ObligationRepository) ObligationService {
	return &obligationService{obligationRepo: obligationRepo}
}

func (s *obligationService) List(ctx context.Context, tipoEmpresa string) ([]models.Obligation, error) {
	tipo := strings.ToUpper(strings.TrimSpace(tipoEmpresa))
	filter := ""
	if tipo != "" {
		if !models.IsValidTipoEmpresa(tipo) {
			return nil, utils.InvalidInputf("tipo_empresa debe ser OIV, PSE o AMBAS")
		}
		filter = catalogFilter(tipo)
	}
	obligations, err := s.obligationRepo.GetAll(nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	return obligations, nil
}
