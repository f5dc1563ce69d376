package repository

import "github.com/jhoicas/Pantallas-api/internal/domain/entity"

// PendingSignupRepository define el puerto para pre-registros (DIP).
type PendingSignupRepository interface {
	// Upsert crea o reemplaza el pre-registro del email (reenviar OTP
	// sobreescribe el anterior; no hay soporte multi-OTP).
	Upsert(signup *entity.PendingSignup) error
	GetByEmail(email string) (*entity.PendingSignup, error)
	Delete(email string) error
	// PurgeExpired borra pre-registros cuyo OTP ya venció (TTL).
	PurgeExpired() (int64, error)
}
