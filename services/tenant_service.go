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

// TenantView is a tenant as rendered by the admin list.
type TenantView struct {
	InquilinoID   uint      `json:"InquilinoID"`
	RazonSocial   string    `json:"RazonSocial"`
	RUT           string    `json:"RUT"`
	FechaCreacion time.Time `json:"FechaCreacion"`
	EstadoActivo  string    `json:"EstadoActivo"`
}

func newTenantView(t models.Tenant) TenantView {
	return TenantView{
		InquilinoID:   t.InquilinoID,
		RazonSocial:   t.RazonSocial,
		RUT:           t.RUT,
		FechaCreacion: t.FechaCreacion,
		EstadoActivo:  t.EstadoLabel(),
	}
}

// TenantService provides tenant administration and company onboarding.
type TenantService interface {
	List(ctx context.Context) ([]TenantView, error)
	Get(ctx context.Context, id uint) (*TenantView, error)
	Create(ctx context.Context, req dto.TenantCreate) (*models.Tenant, error)

	// Companies lists the companies of a tenant. Returns ErrNotFound when the tenant is missing.
	Companies(ctx context.Context, tenantID uint) ([]models.Company, error)

	// CreateCompany registers a company under the tenant. TipoEmpresa defaults to PSE.
	CreateCompany(ctx context.Context, tenantID uint, req dto.CompanyCreate) (*models.Company, error)
}

type tenantService struct {
	tenantRepo  repository.TenantRepository
	companyRepo repository.CompanyRepository
}

// NewTenantService creates a new tenant service instance.
func NewTenantService() TenantService {
	return &tenantService{
		tenantRepo:  repository.NewTenantRepository(),
		companyRepo: repository.NewCompanyRepository(),
	}
}

// NewTenantServiceWithDeps creates a service instance with injected dependencies.
func NewTenantServiceWithDeps(tenantRepo repository.TenantRepository, companyRepo repository.CompanyRepository) TenantService {
	return &tenantService{
		tenantRepo:  tenantRepo,
		companyRepo: companyRepo,
	}
}

func (s *tenantService) List(ctx context.Context) ([]TenantView, error) {
	tenants, err := s.tenantRepo.GetAll(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	views := make([]TenantView, 0, len(tenants))
	for _, t := range tenants {
		views = append(views, newTenantView(t))
	}
	return views, nil
}

func (s *tenantService) Get(ctx context.Context, id uint) (*TenantView, error) {
	tenant, err := s.getTenant(id)
	if err != nil {
		return nil, err
	}
	view := newTenantView(*tenant)
	return &view, nil
}

func (s *tenantService) getTenant(id uint) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("Inquilino %d no encontrado", id)
		}
		return nil, fmt.Errorf("failed to get tenant %d: %w", id, err)
	}
	return tenant, nil
}

func (s *tenantService) Create(ctx context.Context, req dto.TenantCreate) (*models.Tenant, error) {
	tenant := &models.Tenant{
		RazonSocial:   strings.TrimSpace(req.RazonSocial),
		RUT:           strings.TrimSpace(req.RUT),
		FechaCreacion: time.Now(),
		EstadoActivo:  true,
	}
	if tenant.RazonSocial == "" || tenant.RUT == "" {
		return nil, utils.InvalidInputf("RazonSocial y RUT son requeridos")
	}
	if err := s.tenantRepo.Create(nil, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	logger.Infof("Created tenant id=%d (%s)", tenant.InquilinoID, tenant.RazonSocial)
	return tenant, nil
}

func (s *tenantService) Companies(ctx context.Context, tenantID uint) ([]models.Company, error) {
	if _, err := s.getTenant(tenantID); err != nil {
		return nil, err
	}
	companies, err := s.companyRepo.GetByTenant(nil, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies of tenant %d: %w", tenantID, err)
	}
	return companies, nil
}

func (s *tenantService) CreateCompany(ctx context.Context, tenantID uint, req dto.CompanyCreate) (*models.Company, error) {
	if _, err := s.getTenant(tenantID); err != nil {
		return nil, err
	}

	tipo := strings.ToUpper(strings.TrimSpace(req.TipoEmpresa))
	if tipo == "" {
		tipo = models.TipoEmpresaPSE
	}
	if !models.IsValidTipoEmpresa(tipo) {
		return nil, utils.InvalidInputf("tipo_empresa debe ser OIV, PSE o AMBAS")
	}

	company := &models.Company{
		RazonSocial:   strings.TrimSpace(req.RazonSocial),
		RUT:           strings.TrimSpace(req.RUT),
		TipoEmpresa:   tipo,
		InquilinoID:   &tenantID,
		FechaCreacion: time.Now(),
	}
	if err := s.companyRepo.Create(nil, company); err != nil {
		return nil, fmt.Errorf("failed to create company for tenant %d: %w", tenantID, err)
	}
	logger.Infof("Created company id=%d (%s, %s) under tenant %d", company.EmpresaID, company.RazonSocial, tipo, tenantID)
	return company, nil
}
