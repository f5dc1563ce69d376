package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateResourceRequest entrada para crear template, screen o playlist.
// El tipo viene de la ruta, no del cuerpo.
type CreateResourceRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	IsPublic     bool            `json:"is_public"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"` // sólo screens
}

// ListResourcesRequest predicados opcionales del listado. Campos tipados:
// ausente = nil, sin heurísticas de strings "null"/"undefined".
type ListResourcesRequest struct {
	Name      *string `query:"name"`
	IsPublic  *bool   `query:"is_public"`
	CreatedBy *string `query:"created_by"`
	PageRequest
}

// ResourceResponse salida de un recurso.
type ResourceResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Name         string          `json:"name"`
	CreatedBy    string          `json:"created_by"`
	CompanyID    *string         `json:"company_id,omitempty"`
	IsPublic     bool            `json:"is_public"`
	MonthlyPrice decimal.Decimal `json:"monthly_price,omitempty"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
