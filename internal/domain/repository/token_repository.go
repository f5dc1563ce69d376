package repository

import "github.com/jhoicas/Pantallas-api/internal/domain/entity"

// TokenRepository define el puerto de persistencia para el ledger de tokens
// no-access (DIP). La implementación vive en infrastructure.
type TokenRepository interface {
	Create(entry *entity.TokenLedgerEntry) error
	GetByJTI(jti string) (*entity.TokenLedgerEntry, error)
	// GetByUserAndType devuelve la entrada viva más reciente para (user, type);
	// (nil, nil) si no hay.
	GetByUserAndType(userID, tokenType string) (*entity.TokenLedgerEntry, error)
	// Consume borra la entrada de forma atómica (find-and-delete a nivel de
	// store, no read-then-delete). Devuelve true si esta llamada la borró:
	// ante dos consumos concurrentes del mismo jti exactamente uno gana.
	Consume(jti string) (bool, error)
	// UpdateOTPAttempts persiste el contador de intentos junto al OTP.
	UpdateOTPAttempts(jti string, attempts int) error
	// DeleteByUserAndType invalida cualquier token previo del mismo tipo
	// (emitir uno nuevo invalida el anterior).
	DeleteByUserAndType(userID, tokenType string) error
	// PurgeExpired borra entradas vencidas no-blacklisted (GC del ledger).
	PurgeExpired() (int64, error)
}
