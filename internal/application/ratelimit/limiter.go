package ratelimit

import (
	"fmt"
	"time"

	"github.com/jhoicas/Pantallas-api/internal/domain"
	"github.com/jhoicas/Pantallas-api/pkg/config"
)

// Claves de endpoint. El prefijo separa los contadores: el gate de entrada
// a verificación de OTP ("otp:") es independiente del contador post-hoc de
// códigos incorrectos que lleva el motor de OTP.
const (
	KeyLogin  = "login"
	KeyOTP    = "otp"
	KeyResend = "resend"
)

// LockError rechaza con el tiempo restante del castigo, para que el handler
// arme un mensaje legible en vez de un error genérico. Err es el sentinel
// de taxonomía: ErrRateLimited (volumen) o ErrTooManyAttempts (corrección);
// son defensas independientes y no se mezclan.
type LockError struct {
	Remaining time.Duration
	Err       error
}

func (e *LockError) Error() string {
	return fmt.Sprintf("%v, intente de nuevo en %s", e.sentinel(), formatRemaining(e.Remaining))
}

// Unwrap permite errors.Is contra el sentinel de dominio.
func (e *LockError) Unwrap() error {
	return e.sentinel()
}

func (e *LockError) sentinel() error {
	if e.Err != nil {
		return e.Err
	}
	return domain.ErrRateLimited
}

// Limiter aplica una política (max, ventana, castigo) por clase de endpoint
// sobre un AttemptStore inyectado.
type Limiter struct {
	store    AttemptStore
	policies map[string]config.RatePolicy
}

// New construye el limitador con las políticas de configuración.
func New(store AttemptStore, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		store: store,
		policies: map[string]config.RatePolicy{
			KeyLogin:  cfg.Login,
			KeyOTP:    cfg.OTP,
			KeyResend: cfg.Resend,
		},
	}
}

// Allow registra un intento para (endpoint, identifier) y decide si pasa.
// Algoritmo: sin registro → count=1; castigado → rechazo con tiempo
// restante; ventana vencida → reinicia a count=1; si el incremento supera
// el máximo → castigo nuevo y rechazo. El estado nunca se revierte ante
// fallas posteriores del flujo (mejor sobre-castigar que sub-castigar).
func (l *Limiter) Allow(endpoint, identifier string) error {
	policy, ok := l.policies[endpoint]
	if !ok {
		return fmt.Errorf("ratelimit: endpoint desconocido %q", endpoint)
	}
	key := endpoint + ":" + identifier
	now := time.Now()

	if a, found, err := l.store.Get(key); err != nil {
		return err
	} else if found && a.Locked(now) {
		return &LockError{Remaining: a.LockedUntil.Sub(now)}
	}

	a, err := l.store.Increment(key, policy.Window)
	if err != nil {
		return err
	}
	if a.Count > policy.MaxAttempts {
		if err := l.store.Lock(key, policy.Lock); err != nil {
			return err
		}
		return &LockError{Remaining: policy.Lock}
	}
	return nil
}

// Reset limpia el contador del identificador (p.ej. tras login exitoso).
func (l *Limiter) Reset(endpoint, identifier string) error {
	return l.store.Clear(endpoint + ":" + identifier)
}

func formatRemaining(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Round(time.Second).Seconds())
		if secs < 1 {
			secs = 1
		}
		return fmt.Sprintf("%d segundos", secs)
	}
	mins := int(d.Round(time.Minute).Minutes())
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("%d minutos", mins)
}
