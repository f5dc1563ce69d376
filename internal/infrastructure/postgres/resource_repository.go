package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/repository"
	"github.com/jhoicas/Pantallas-api/internal/domain/scope"
)

var _ repository.ResourceRepository = (*ResourceRepo)(nil)

// ResourceRepo implementación del puerto ResourceRepository sobre PostgreSQL.
// Traduce scope.Filter a predicados SQL; toda lectura y mutación pasa por
// esa traducción, nunca por filtros crudos.
type ResourceRepo struct {
	pool *pgxpool.Pool
}

// NewResourceRepository construye el adaptador de recursos.
func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepo {
	return &ResourceRepo{pool: pool}
}

const resourceColumns = `id, kind, name, created_by, company_id, is_public, monthly_price, deleted_at, created_at, updated_at`

// Create persiste un recurso nuevo.
func (r *ResourceRepo) Create(resource *entity.Resource) error {
	query := `
		INSERT INTO resources (` + resourceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(context.Background(), query,
		resource.ID, resource.Kind, resource.Name, resource.CreatedBy, resource.CompanyID,
		resource.IsPublic, resource.MonthlyPrice, resource.DeletedAt, resource.CreatedAt, resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

// whereFromFilter arma las condiciones SQL del filtro ya reescrito por el
// motor de scoping. El discriminador de papelera (deleted_at) se aplica
// siempre, incluso para super_admin.
func whereFromFilter(f scope.Filter, startArg int) (string, []any) {
	conds := make([]string, 0, 6)
	args := make([]any, 0, 6)
	n := startArg

	if f.Deleted {
		conds = append(conds, "deleted_at IS NOT NULL")
	} else {
		conds = append(conds, "deleted_at IS NULL")
	}
	if f.CompanyID != nil {
		conds = append(conds, fmt.Sprintf("company_id = $%d", n))
		args = append(args, *f.CompanyID)
		n++
	}
	if f.CreatedBy != nil {
		conds = append(conds, fmt.Sprintf("created_by = $%d", n))
		args = append(args, *f.CreatedBy)
		n++
	}
	if f.ResourceKind != nil {
		conds = append(conds, fmt.Sprintf("kind = $%d", n))
		args = append(args, *f.ResourceKind)
		n++
	}
	if f.Name != nil {
		conds = append(conds, fmt.Sprintf("name = $%d", n))
		args = append(args, *f.Name)
		n++
	}
	if f.IsPublic != nil {
		conds = append(conds, fmt.Sprintf("is_public = $%d", n))
		args = append(args, *f.IsPublic)
		n++
	}
	return strings.Join(conds, " AND "), args
}

// Get devuelve el recurso por id sólo si el filtro lo autoriza; (nil, nil)
// si no existe o queda fuera del alcance.
func (r *ResourceRepo) Get(id string, filter scope.Filter) (*entity.Resource, error) {
	where, args := whereFromFilter(filter, 2)
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1 AND ` + where
	var res entity.Resource
	err := r.pool.QueryRow(context.Background(), query, append([]any{id}, args...)...).Scan(
		&res.ID, &res.Kind, &res.Name, &res.CreatedBy, &res.CompanyID,
		&res.IsPublic, &res.MonthlyPrice, &res.DeletedAt, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return &res, nil
}

// List lista recursos bajo el filtro con paginación.
func (r *ResourceRepo) List(filter scope.Filter, limit, offset int) ([]*entity.Resource, error) {
	where, args := whereFromFilter(filter, 1)
	query := fmt.Sprintf(
		`SELECT `+resourceColumns+` FROM resources WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	rows, err := r.pool.Query(context.Background(), query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()
	var list []*entity.Resource
	for rows.Next() {
		var res entity.Resource
		if err := rows.Scan(&res.ID, &res.Kind, &res.Name, &res.CreatedBy, &res.CompanyID,
			&res.IsPublic, &res.MonthlyPrice, &res.DeletedAt, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables de un recurso.
func (r *ResourceRepo) Update(resource *entity.Resource) error {
	query := `
		UPDATE resources SET name = $2, is_public = $3, monthly_price = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		resource.ID, resource.Name, resource.IsPublic, resource.MonthlyPrice, resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	return nil
}

// SoftDelete sella deleted_at dentro del alcance del filtro. Devuelve false
// si el recurso no existe o está fuera del alcance.
func (r *ResourceRepo) SoftDelete(id string, filter scope.Filter, when time.Time) (bool, error) {
	where, args := whereFromFilter(filter, 3)
	query := `UPDATE resources SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND ` + where
	tag, err := r.pool.Exec(context.Background(), query, append([]any{id, when}, args...)...)
	if err != nil {
		return false, fmt.Errorf("soft delete resource: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Restore limpia deleted_at dentro del alcance del filtro de papelera.
func (r *ResourceRepo) Restore(id string, filter scope.Filter) (bool, error) {
	where, args := whereFromFilter(filter, 2)
	query := `UPDATE resources SET deleted_at = NULL, updated_at = now() WHERE id = $1 AND ` + where
	tag, err := r.pool.Exec(context.Background(), query, append([]any{id}, args...)...)
	if err != nil {
		return false, fmt.Errorf("restore resource: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
