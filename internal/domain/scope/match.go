package scope

import "github.com/jhoicas/Pantallas-api/internal/domain/entity"

// Matches evalúa el filtro contra un recurso en memoria. Es la misma
// semántica que la traducción SQL de infrastructure; se usa en fakes de
// test y en verificaciones defensivas.
func (f Filter) Matches(r *entity.Resource) bool {
	if r.Deleted() != f.Deleted {
		return false
	}
	if f.ResourceKind != nil && r.Kind != *f.ResourceKind {
		return false
	}
	if f.Name != nil && r.Name != *f.Name {
		return false
	}
	if f.IsPublic != nil && r.IsPublic != *f.IsPublic {
		return false
	}
	if f.Unrestricted {
		if f.CreatedBy != nil && r.CreatedBy != *f.CreatedBy {
			return false
		}
		return true
	}
	if f.CompanyID != nil {
		if r.CompanyID == nil || *r.CompanyID != *f.CompanyID {
			return false
		}
	}
	if f.CreatedBy != nil && r.CreatedBy != *f.CreatedBy {
		return false
	}
	return true
}
