package repository

import (
	"time"

	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/scope"
)

// ResourceRepository define el puerto de persistencia para templates,
// screens y playlists. Toda lectura pasa por un scope.Filter ya reescrito:
// el repositorio nunca recibe filtros crudos del cliente.
type ResourceRepository interface {
	Create(resource *entity.Resource) error
	// Get devuelve el recurso por id sólo si el filtro lo autoriza;
	// (nil, nil) si no existe o queda fuera del alcance.
	Get(id string, filter scope.Filter) (*entity.Resource, error)
	List(filter scope.Filter, limit, offset int) ([]*entity.Resource, error)
	Update(resource *entity.Resource) error
	// SoftDelete mueve el recurso a la papelera sellando deleted_at.
	SoftDelete(id string, filter scope.Filter, when time.Time) (bool, error)
	// Restore saca el recurso de la papelera (filtro de papelera obligado).
	Restore(id string, filter scope.Filter) (bool, error)
}
