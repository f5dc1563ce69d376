package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de recurso de contenido. Los tres comparten el mismo modelo de
// aislamiento por empresa y papelera; solo difieren en sus campos propios.
const (
	ResourceTemplate = "template"
	ResourceScreen   = "screen"
	ResourcePlaylist = "playlist"
)

// Resource es el modelo común de templates, screens y playlists: contenido
// creado por un usuario y sellado con su Company al momento de crearlo.
// DeletedAt != nil significa que está en la papelera (borrado suave).
type Resource struct {
	ID        string
	Kind      string // template, screen, playlist
	Name      string
	CreatedBy string
	CompanyID *string // empresa del creador al momento de crear; nil si no tenía
	IsPublic  bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// Solo para screens: precio mensual del slot publicitario.
	MonthlyPrice decimal.Decimal
}

// Deleted indica si el recurso está en la papelera.
func (r *Resource) Deleted() bool {
	return r.DeletedAt != nil
}

// ValidResourceKind valida el tipo de recurso.
func ValidResourceKind(kind string) bool {
	switch kind {
	case ResourceTemplate, ResourceScreen, ResourcePlaylist:
		return true
	}
	return false
}
