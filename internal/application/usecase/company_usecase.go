package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pantallas-api/internal/application/dto"
	"github.com/jhoicas/Pantallas-api/internal/domain"
	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	companies repository.CompanyRepository
	users     repository.UserRepository
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(companies repository.CompanyRepository, users repository.UserRepository) *CompanyUseCase {
	return &CompanyUseCase{companies: companies, users: users}
}

// Create crea una empresa con el caller como dueño y lo vincula a ella.
// Devuelve ErrCompanyExists si el nombre ya está tomado.
func (uc *CompanyUseCase) Create(ownerID string, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	existing, err := uc.companies.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrCompanyExists
	}
	now := time.Now().UTC()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		OwnerID:   ownerID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companies.Create(company); err != nil {
		return nil, err
	}

	// Vincular al dueño: su contenido futuro queda sellado con esta empresa.
	owner, err := uc.users.GetByID(ownerID)
	if err != nil {
		return nil, err
	}
	if owner != nil && !owner.HasCompany() {
		owner.CompanyID = &company.ID
		owner.OnboardingComplete = true
		owner.UpdatedAt = now
		if err := uc.users.Update(owner); err != nil {
			return nil, err
		}
	}
	return toCompanyResponse(company), nil
}

// IsActiveCompany indica si la empresa existe y está activa. Lo consume el
// middleware RequireActiveCompany.
func (uc *CompanyUseCase) IsActiveCompany(_ context.Context, companyID string) (bool, error) {
	company, err := uc.companies.GetByID(companyID)
	if err != nil {
		return false, err
	}
	return company != nil && company.Active, nil
}

// GetByID obtiene una empresa por ID; (nil, nil) si no existe.
func (uc *CompanyUseCase) GetByID(id string) (*dto.CompanyResponse, error) {
	company, err := uc.companies.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return toCompanyResponse(company), nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		OwnerID:   c.OwnerID,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
