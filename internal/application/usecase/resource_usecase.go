package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pantallas-api/internal/application/dto"
	"github.com/jhoicas/Pantallas-api/internal/domain"
	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/repository"
	"github.com/jhoicas/Pantallas-api/internal/domain/scope"
)

// ResourceUseCase cubre templates, screens y playlists: CRUD mínimo con
// papelera, siempre detrás del motor de tenant-scoping. Ningún filtro crudo
// del cliente llega al repositorio.
type ResourceUseCase struct {
	resources repository.ResourceRepository
}

// NewResourceUseCase construye el caso de uso de recursos.
func NewResourceUseCase(resources repository.ResourceRepository) *ResourceUseCase {
	return &ResourceUseCase{resources: resources}
}

// Create crea el recurso sellándolo con la empresa vigente del caller.
func (uc *ResourceUseCase) Create(caller scope.Caller, kind string, in dto.CreateResourceRequest) (*dto.ResourceResponse, error) {
	if !entity.ValidResourceKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	r := &entity.Resource{
		ID:           uuid.New().String(),
		Kind:         kind,
		Name:         in.Name,
		CreatedBy:    caller.ID,
		CompanyID:    caller.CompanyID,
		IsPublic:     in.IsPublic,
		MonthlyPrice: in.MonthlyPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.resources.Create(r); err != nil {
		return nil, err
	}
	return toResourceResponse(r), nil
}

// List lista recursos activos bajo el alcance del caller.
func (uc *ResourceUseCase) List(caller scope.Caller, kind string, in dto.ListResourcesRequest) ([]*dto.ResourceResponse, error) {
	return uc.list(caller, kind, in, scope.KindNormal)
}

// ListRecycleBin lista la papelera bajo aislamiento estricto.
func (uc *ResourceUseCase) ListRecycleBin(caller scope.Caller, kind string, in dto.ListResourcesRequest) ([]*dto.ResourceResponse, error) {
	return uc.list(caller, kind, in, scope.KindRecycleBin)
}

func (uc *ResourceUseCase) list(caller scope.Caller, kind string, in dto.ListResourcesRequest, queryKind scope.Kind) ([]*dto.ResourceResponse, error) {
	if !entity.ValidResourceKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	filter, err := scope.Build(caller, scope.Request{
		ResourceKind: &kind,
		Name:         in.Name,
		IsPublic:     in.IsPublic,
		CreatedBy:    in.CreatedBy,
	}, queryKind)
	if err != nil {
		return nil, err
	}
	list, err := uc.resources.List(filter, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ResourceResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toResourceResponse(r))
	}
	return out, nil
}

// Get devuelve un recurso activo si el alcance del caller lo permite.
func (uc *ResourceUseCase) Get(caller scope.Caller, kind, id string) (*dto.ResourceResponse, error) {
	filter, err := scope.Build(caller, scope.Request{ResourceKind: &kind}, scope.KindNormal)
	if err != nil {
		return nil, err
	}
	r, err := uc.resources.Get(id, filter)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toResourceResponse(r), nil
}

// SoftDelete mueve el recurso a la papelera dentro del alcance del caller.
func (uc *ResourceUseCase) SoftDelete(caller scope.Caller, kind, id string) error {
	filter, err := scope.Build(caller, scope.Request{ResourceKind: &kind}, scope.KindNormal)
	if err != nil {
		return err
	}
	ok, err := uc.resources.SoftDelete(id, filter, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Restore saca el recurso de la papelera; el filtro de papelera aplica el
// aislamiento estricto.
func (uc *ResourceUseCase) Restore(caller scope.Caller, kind, id string) error {
	filter, err := scope.Build(caller, scope.Request{ResourceKind: &kind}, scope.KindRecycleBin)
	if err != nil {
		return err
	}
	ok, err := uc.resources.Restore(id, filter)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func toResourceResponse(r *entity.Resource) *dto.ResourceResponse {
	return &dto.ResourceResponse{
		ID:           r.ID,
		Kind:         r.Kind,
		Name:         r.Name,
		CreatedBy:    r.CreatedBy,
		CompanyID:    r.CompanyID,
		IsPublic:     r.IsPublic,
		MonthlyPrice: r.MonthlyPrice,
		DeletedAt:    r.DeletedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
