package entity

import "time"

// Roles válidos para User.
const (
	RoleUser       = "user"
	RoleAdvertiser = "advertiser"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// User representa un usuario del sistema. CompanyID es opcional: un usuario
// recién registrado puede no pertenecer todavía a ninguna Company, y el
// super_admin opera fuera del límite de tenant.
type User struct {
	ID                 string
	Email              string // siempre en minúsculas, único global
	PasswordHash       string // bcrypt; vacío si el usuario entró por login federado
	Name               string
	Role               string  // user, advertiser, admin, super_admin
	CompanyID          *string // nil = sin empresa asignada
	EmailVerified      bool
	OnboardingComplete bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsLocal indica si el usuario se autentica con password local.
// Invariante: un usuario local siempre tiene hash; uno federado puede no tenerlo.
func (u *User) IsLocal() bool {
	return u.PasswordHash != ""
}

// HasCompany indica si el usuario tiene empresa asignada.
func (u *User) HasCompany() bool {
	return u.CompanyID != nil && *u.CompanyID != ""
}

// ValidRole valida que el rol exista en el catálogo.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdvertiser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}
