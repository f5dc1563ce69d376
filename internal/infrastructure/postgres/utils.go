package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation indica si err es una violación de constraint UNIQUE
// (código 23505). Por aquí llegan los emails de usuario y los nombres de
// empresa duplicados, que los repositorios traducen a los sentinels de
// conflicto del dominio.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
