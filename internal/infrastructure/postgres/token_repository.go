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

var _ repository.TokenRepository = (*TokenRepo)(nil)

// TokenRepo implementación del ledger de tokens no-access sobre PostgreSQL.
type TokenRepo struct {
	pool *pgxpool.Pool
}

// NewTokenRepository construye el adaptador del ledger.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepo {
	return &TokenRepo{pool: pool}
}

const tokenColumns = `jti, user_id, type, expires_at, blacklisted, otp, otp_attempts, created_at`

// Create persiste una entrada del ledger.
func (r *TokenRepo) Create(entry *entity.TokenLedgerEntry) error {
	query := `
		INSERT INTO token_ledger (` + tokenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(context.Background(), query,
		entry.JTI, entry.UserID, entry.Type, entry.ExpiresAt, entry.Blacklisted,
		entry.OTP, entry.OTPAttempts, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetByJTI obtiene la entrada por jti; (nil, nil) si no existe.
func (r *TokenRepo) GetByJTI(jti string) (*entity.TokenLedgerEntry, error) {
	return r.scanOne(`SELECT `+tokenColumns+` FROM token_ledger WHERE jti = $1`, jti)
}

// GetByUserAndType obtiene la entrada más reciente para (user, type);
// (nil, nil) si no hay.
func (r *TokenRepo) GetByUserAndType(userID, tokenType string) (*entity.TokenLedgerEntry, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM token_ledger WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC LIMIT 1`
	var e entity.TokenLedgerEntry
	err := r.pool.QueryRow(context.Background(), query, userID, tokenType).Scan(
		&e.JTI, &e.UserID, &e.Type, &e.ExpiresAt, &e.Blacklisted, &e.OTP, &e.OTPAttempts, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get token by user/type: %w", err)
	}
	return &e, nil
}

func (r *TokenRepo) scanOne(query string, arg any) (*entity.TokenLedgerEntry, error) {
	var e entity.TokenLedgerEntry
	err := r.pool.QueryRow(context.Background(), query, arg).Scan(
		&e.JTI, &e.UserID, &e.Type, &e.ExpiresAt, &e.Blacklisted, &e.OTP, &e.OTPAttempts, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get token: %w", err)
	}
	return &e, nil
}

// Consume borra la entrada de forma atómica: el DELETE con RETURNING decide
// en el store quién gana ante consumos concurrentes del mismo jti.
func (r *TokenRepo) Consume(jti string) (bool, error) {
	var deleted string
	err := r.pool.QueryRow(context.Background(),
		`DELETE FROM token_ledger WHERE jti = $1 RETURNING jti`, jti,
	).Scan(&deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("consume token: %w", err)
	}
	return true, nil
}

// UpdateOTPAttempts persiste el contador de intentos de la entrada.
func (r *TokenRepo) UpdateOTPAttempts(jti string, attempts int) error {
	_, err := r.pool.Exec(context.Background(),
		`UPDATE token_ledger SET otp_attempts = $2 WHERE jti = $1`, jti, attempts,
	)
	if err != nil {
		return fmt.Errorf("update otp attempts: %w", err)
	}
	return nil
}

// DeleteByUserAndType invalida todos los tokens de un tipo para el usuario.
func (r *TokenRepo) DeleteByUserAndType(userID, tokenType string) error {
	_, err := r.pool.Exec(context.Background(),
		`DELETE FROM token_ledger WHERE user_id = $1 AND type = $2`, userID, tokenType,
	)
	if err != nil {
		return fmt.Errorf("delete tokens by user/type: %w", err)
	}
	return nil
}

// PurgeExpired borra entradas vencidas no-blacklisted (GC del ledger).
func (r *TokenRepo) PurgeExpired() (int64, error) {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM token_ledger WHERE expires_at < now() AND blacklisted = false`,
	)
	if err != nil {
		return 0, fmt.Errorf("purge tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
