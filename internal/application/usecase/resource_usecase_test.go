package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pantallas-api/internal/application/dto"
	"github.com/jhoicas/Pantallas-api/internal/domain"
	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/repository"
	"github.com/jhoicas/Pantallas-api/internal/domain/scope"
)

// ──────────────────────────────────────────────────────────────────────────────
// fakeResourceRepo: evalúa el scope.Filter en memoria con la misma semántica
// que la traducción SQL de infrastructure.
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.ResourceRepository = (*fakeResourceRepo)(nil)

type fakeResourceRepo struct {
	byID map[string]*entity.Resource
}

func newFakeResourceRepo() *fakeResourceRepo {
	return &fakeResourceRepo{byID: make(map[string]*entity.Resource)}
}

func (r *fakeResourceRepo) Create(resource *entity.Resource) error {
	cp := *resource
	r.byID[resource.ID] = &cp
	return nil
}

func (r *fakeResourceRepo) Get(id string, filter scope.Filter) (*entity.Resource, error) {
	res, ok := r.byID[id]
	if !ok || !filter.Matches(res) {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (r *fakeResourceRepo) List(filter scope.Filter, limit, offset int) ([]*entity.Resource, error) {
	var out []*entity.Resource
	for _, res := range r.byID {
		if filter.Matches(res) {
			cp := *res
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeResourceRepo) Update(resource *entity.Resource) error {
	cp := *resource
	r.byID[resource.ID] = &cp
	return nil
}

func (r *fakeResourceRepo) SoftDelete(id string, filter scope.Filter, when time.Time) (bool, error) {
	res, ok := r.byID[id]
	if !ok || !filter.Matches(res) {
		return false, nil
	}
	res.DeletedAt = &when
	return true, nil
}

func (r *fakeResourceRepo) Restore(id string, filter scope.Filter) (bool, error) {
	res, ok := r.byID[id]
	if !ok || !filter.Matches(res) {
		return false, nil
	}
	res.DeletedAt = nil
	return true, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: dos empresas, un usuario en cada una
// ──────────────────────────────────────────────────────────────────────────────

const (
	anaID    = "00000000-0000-0000-0000-00000000000a"
	luisID   = "00000000-0000-0000-0000-00000000000b"
	empresaX = "00000000-0000-0000-0000-0000000000aa"
	empresaY = "00000000-0000-0000-0000-0000000000bb"
)

func callerAna() scope.Caller {
	companyID := empresaX
	return scope.Caller{ID: anaID, Role: entity.RoleUser, CompanyID: &companyID}
}

func callerLuis() scope.Caller {
	companyID := empresaY
	return scope.Caller{ID: luisID, Role: entity.RoleUser, CompanyID: &companyID}
}

func ids(list []*dto.ResourceResponse) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestResourceCreate_SellaLaEmpresaDelCaller(t *testing.T) {
	uc := NewResourceUseCase(newFakeResourceRepo())

	resp, err := uc.Create(callerAna(), entity.ResourceTemplate, dto.CreateResourceRequest{Name: "menú del día"})
	require.NoError(t, err)
	require.NotNil(t, resp.CompanyID)
	assert.Equal(t, empresaX, *resp.CompanyID, "el recurso queda sellado con la empresa vigente al crear")
	assert.Equal(t, anaID, resp.CreatedBy)
}

func TestResourceCreate_TipoInvalido_Rechazado(t *testing.T) {
	uc := NewResourceUseCase(newFakeResourceRepo())
	_, err := uc.Create(callerAna(), "gadget", dto.CreateResourceRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResourceCreate_Screen_ConPrecioMensual(t *testing.T) {
	uc := NewResourceUseCase(newFakeResourceRepo())
	price := decimal.RequireFromString("149.90")

	resp, err := uc.Create(callerAna(), entity.ResourceScreen, dto.CreateResourceRequest{
		Name:         "valla calle 85",
		MonthlyPrice: price,
	})
	require.NoError(t, err)
	assert.True(t, resp.MonthlyPrice.Equal(price))
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento entre empresas a través del caso de uso completo
// ──────────────────────────────────────────────────────────────────────────────

func TestResourceList_NoCruzaEmpresas(t *testing.T) {
	uc := NewResourceUseCase(newFakeResourceRepo())

	mine, err := uc.Create(callerAna(), entity.ResourceTemplate, dto.CreateResourceRequest{Name: "mío"})
	require.NoError(t, err)
	_, err = uc.Create(callerLuis(), entity.ResourceTemplate, dto.CreateResourceRequest{Name: "ajeno"})
	require.NoError(t, err)

	list, err := uc.List(callerAna(), entity.ResourceTemplate, dto.ListResourcesRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{mine.ID}, ids(list))
}

func TestResourceGet_AjenoInvisible(t *testing.T) {
	uc := NewResourceUseCase(newFakeResourceRepo())
	ajeno, err := uc.Create(callerLuis(), entity.ResourceTemplate, dto.CreateResourceRequest{Name: "ajeno"})
	require.NoError(t, err)

	_, err = uc.Get(callerAna(), entity.ResourceTemplate, ajeno.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"un recurso de otra empresa es indistinguible de uno inexistente")
}

func TestResourceSoftDelete_AjenoIntocable(t *testing.T) {
	uc := NewResourceUseCase(newFakeResourceRepo())
	ajeno, err := uc.Create(callerLuis(), entity.ResourceTemplate, dto.CreateResourceRequest{Name: "ajeno"})
	require.NoError(t, err)

	err = uc.SoftDelete(callerAna(), entity.ResourceTemplate, ajeno.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// El recurso sigue activo para su dueño.
	_, err = uc.Get(callerLuis(), entity.ResourceTemplate, ajeno.ID)
	assert.NoError(t, err)
}

// Borrado, papelera y restauración: el ciclo completo respeta el aislamiento.
func TestResourceRecycleBin_CicloCompleto(t *testing.T) {
	uc := NewResourceUseCase(newFakeResourceRepo())
	r, err := uc.Create(callerAna(), entity.ResourceTemplate, dto.CreateResourceRequest{Name: "menú"})
	require.NoError(t, err)

	require.NoError(t, uc.SoftDelete(callerAna(), entity.ResourceTemplate, r.ID))

	// Desaparece del listado normal y de Get.
	list, err := uc.List(callerAna(), entity.ResourceTemplate, dto.ListResourcesRequest{})
	require.NoError(t, err)
	assert.Empty(t, ids(list))
	_, err = uc.Get(callerAna(), entity.ResourceTemplate, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Aparece en la papelera del dueño, no en la de otra empresa.
	bin, err := uc.ListRecycleBin(callerAna(), entity.ResourceTemplate, dto.ListResourcesRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID}, ids(bin))

	otherBin, err := uc.ListRecycleBin(callerLuis(), entity.ResourceTemplate, dto.ListResourcesRequest{})
	require.NoError(t, err)
	assert.Empty(t, ids(otherBin), "la papelera jamás cruza empresas")

	// Otra empresa tampoco puede restaurarlo.
	err = uc.Restore(callerLuis(), entity.ResourceTemplate, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// El dueño sí, y el recurso vuelve al listado normal.
	require.NoError(t, uc.Restore(callerAna(), entity.ResourceTemplate, r.ID))
	list, err = uc.List(callerAna(), entity.ResourceTemplate, dto.ListResourcesRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID}, ids(list))
}

// Un recurso público es visible entre empresas en el listado normal cuando se
// pide explícitamente, pero NUNCA en la papelera.
func TestResourcePublico_VisibleActivo_InvisibleEnPapelera(t *testing.T) {
	repo := newFakeResourceRepo()
	uc := NewResourceUseCase(repo)

	companyID := empresaY
	now := time.Now().UTC()
	require.NoError(t, repo.Create(&entity.Resource{
		ID: "pub-1", Kind: entity.ResourceTemplate, Name: "público",
		CreatedBy: luisID, CompanyID: &companyID, IsPublic: true,
		CreatedAt: now, UpdatedAt: now,
	}))

	// super_admin lo ve activo desde cualquier parte.
	admin := scope.Caller{ID: anaID, Role: entity.RoleSuperAdmin}
	list, err := uc.List(admin, entity.ResourceTemplate, dto.ListResourcesRequest{})
	require.NoError(t, err)
	assert.Contains(t, ids(list), "pub-1")

	// Borrado, sólo la papelera de SU empresa lo muestra.
	require.NoError(t, uc.SoftDelete(callerLuis(), entity.ResourceTemplate, "pub-1"))
	bin, err := uc.ListRecycleBin(callerAna(), entity.ResourceTemplate, dto.ListResourcesRequest{})
	require.NoError(t, err)
	assert.NotContains(t, ids(bin), "pub-1",
		"ni el contenido público cruza empresas en la papelera")
}

func TestResourceList_CallerMalformado_Rechazado(t *testing.T) {
	uc := NewResourceUseCase(newFakeResourceRepo())
	caller := scope.Caller{ID: "undefined", Role: entity.RoleUser}

	_, err := uc.List(caller, entity.ResourceTemplate, dto.ListResourcesRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
