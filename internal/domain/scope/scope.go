package scope

import (
	"github.com/google/uuid"

	"github.com/jhoicas/Pantallas-api/internal/domain"
)

// Kind distingue un listado normal de uno de papelera. La papelera aplica
// aislamiento estricto: nunca es visible entre empresas, ni para contenido
// público.
type Kind int

const (
	KindNormal Kind = iota
	KindRecycleBin
)

// Caller es la identidad ya autenticada que consulta.
type Caller struct {
	ID        string
	Role      string
	CompanyID *string
}

func (c Caller) hasCompany() bool {
	return c.CompanyID != nil && *c.CompanyID != ""
}

// Request son los predicados opcionales que pide el cliente. Campos tipados:
// un campo ausente es nil y punto — no existe la clase de bug de strings
// "null"/"undefined" colándose como valores.
type Request struct {
	ResourceKind *string
	Name         *string
	IsPublic     *bool
	CreatedBy    *string // pedir los "míos": sólo se honra el propio id
}

// Filter es el filtro final que llega al storage. Garantiza que ningún
// documento fuera de la visibilidad autorizada del caller pueda aparecer.
type Filter struct {
	Unrestricted bool // super_admin: sin predicado de empresa ni dueño

	CompanyID *string
	CreatedBy *string

	ResourceKind *string
	Name         *string
	IsPublic     *bool

	// Deleted es el discriminador de papelera; se fija siempre según Kind.
	Deleted bool
}

// Build produce el filtro final para (caller, request, kind).
//
// Reglas:
//  1. super_admin pasa sin reescritura (visibilidad global).
//  2. Papelera: empresa del caller forzada; sin empresa, dueño forzado.
//  3. Normal: empresa forzada; sin empresa, dueño forzado. Si el caller pidió
//     explícitamente filtrar por su propio id como creador, se honra ese
//     alcance más estrecho reemplazando el predicado de empresa por el de
//     dueño (un "mis items" es subconjunto estricto de "los de mi empresa").
//  4. Identificadores malformados se rechazan, nunca se coercionan.
func Build(caller Caller, req Request, kind Kind) (Filter, error) {
	f := Filter{
		ResourceKind: req.ResourceKind,
		Name:         req.Name,
		IsPublic:     req.IsPublic,
		Deleted:      kind == KindRecycleBin,
	}

	if domain.IsUnrestricted(caller.Role) {
		f.Unrestricted = true
		f.CreatedBy = req.CreatedBy
		return f, nil
	}

	if caller.ID == "" || !validID(caller.ID) {
		return Filter{}, domain.ErrInvalidID
	}
	if caller.hasCompany() && !validID(*caller.CompanyID) {
		return Filter{}, domain.ErrInvalidID
	}
	if req.CreatedBy != nil && !validID(*req.CreatedBy) {
		return Filter{}, domain.ErrInvalidID
	}

	if kind == KindRecycleBin {
		// Aislamiento estricto: ni contenido público cruza empresas aquí.
		if caller.hasCompany() {
			f.CompanyID = caller.CompanyID
		} else {
			f.CreatedBy = &caller.ID
		}
		return f, nil
	}

	if caller.hasCompany() {
		if req.CreatedBy != nil && *req.CreatedBy == caller.ID {
			// "Mis items": alcance más estrecho que la empresa.
			f.CreatedBy = &caller.ID
		} else {
			f.CompanyID = caller.CompanyID
			f.CreatedBy = req.CreatedBy
		}
	} else {
		f.CreatedBy = &caller.ID
	}
	return f, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
