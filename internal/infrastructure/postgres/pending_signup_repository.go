package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/repository"
)

var _ repository.PendingSignupRepository = (*PendingSignupRepo)(nil)

// PendingSignupRepo implementación del puerto de pre-registros sobre PostgreSQL.
type PendingSignupRepo struct {
	pool *pgxpool.Pool
}

// NewPendingSignupRepository construye el adaptador de pre-registros.
func NewPendingSignupRepository(pool *pgxpool.Pool) *PendingSignupRepo {
	return &PendingSignupRepo{pool: pool}
}

const pendingColumns = `email, name, password_hash, role, company_name, otp, otp_expires_at, created_at`

// Upsert crea o reemplaza el pre-registro del email: un OTP nuevo invalida
// el anterior.
func (r *PendingSignupRepo) Upsert(signup *entity.PendingSignup) error {
	query := `
		INSERT INTO pending_signups (` + pendingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			company_name = EXCLUDED.company_name,
			otp = EXCLUDED.otp,
			otp_expires_at = EXCLUDED.otp_expires_at`
	_, err := r.pool.Exec(context.Background(), query,
		signup.Email, signup.Name, signup.PasswordHash, signup.Role, signup.CompanyName,
		signup.OTP, signup.OTPExpiresAt, signup.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert pending signup: %w", err)
	}
	return nil
}

// GetByEmail obtiene el pre-registro; (nil, nil) si no existe.
func (r *PendingSignupRepo) GetByEmail(email string) (*entity.PendingSignup, error) {
	var p entity.PendingSignup
	err := r.pool.QueryRow(context.Background(),
		`SELECT `+pendingColumns+` FROM pending_signups WHERE email = $1`, email,
	).Scan(&p.Email, &p.Name, &p.PasswordHash, &p.Role, &p.CompanyName, &p.OTP, &p.OTPExpiresAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending signup: %w", err)
	}
	return &p, nil
}

// Delete borra el pre-registro (consumo al promover a User).
func (r *PendingSignupRepo) Delete(email string) error {
	_, err := r.pool.Exec(context.Background(),
		`DELETE FROM pending_signups WHERE email = $1`, email,
	)
	if err != nil {
		return fmt.Errorf("delete pending signup: %w", err)
	}
	return nil
}

// PurgeExpired borra pre-registros con OTP vencido (TTL).
func (r *PendingSignupRepo) PurgeExpired() (int64, error) {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM pending_signups WHERE otp_expires_at < now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("purge pending signups: %w", err)
	}
	return tag.RowsAffected(), nil
}
