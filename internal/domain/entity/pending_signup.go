package entity

import "time"

// PendingSignup es el pre-registro de un usuario que todavía no verificó su
// email. Se promueve a User (y se borra) al verificar el OTP; si nadie lo
// toca, la purga de expirados lo elimina pasado su TTL.
type PendingSignup struct {
	Email        string // minúsculas, único
	Name         string
	PasswordHash string
	Role         string
	CompanyName  string // empresa elegida/vinculada durante el registro
	OTP          string
	OTPExpiresAt time.Time
	CreatedAt    time.Time
}

// Expired indica si el OTP del pre-registro ya venció.
func (p *PendingSignup) Expired(now time.Time) bool {
	return now.After(p.OTPExpiresAt)
}
