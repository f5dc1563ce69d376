package entity

import "time"

// Tipos de token emitidos por el sistema.
const (
	TokenAccess        = "access"
	TokenRefresh       = "refresh"
	TokenResetPassword = "reset-password"
	TokenVerifyEmail   = "verify-email"
)

// TokenLedgerEntry es el registro persistido de un token emitido, identificado
// por su jti. Solo se persisten tokens no-access: los access son bearer puros
// verificados por firma + expiración y nunca tocan el ledger.
type TokenLedgerEntry struct {
	JTI         string
	UserID      string
	Type        string // refresh, reset-password, verify-email
	ExpiresAt   time.Time
	Blacklisted bool
	OTP         string // solo para reset-password / verify-email
	OTPAttempts int    // contador persistido junto al OTP
	CreatedAt   time.Time
}

// Expired indica si la entrada ya venció respecto a now (UTC).
func (e *TokenLedgerEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// PersistedTokenType indica si el tipo de token se escribe al ledger.
func PersistedTokenType(tokenType string) bool {
	switch tokenType {
	case TokenRefresh, TokenResetPassword, TokenVerifyEmail:
		return true
	}
	return false
}
