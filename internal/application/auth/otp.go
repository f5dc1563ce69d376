package auth

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/jhoicas/Pantallas-api/internal/application/ratelimit"
	"github.com/jhoicas/Pantallas-api/internal/domain"
	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/repository"
	"github.com/jhoicas/Pantallas-api/pkg/config"
)

// OTPService genera y verifica códigos numéricos de un solo uso, con
// lockout por intentos fallidos. El contador de intentos (clave
// "otp:<email>") habla de corrección del código y es independiente del
// rate limiter de volumen del endpoint: umbral y castigo propios.
//
// Máquina de estados por clave: Fresh → Counting (1..N-1 fallos) →
// Locked (N fallos, timer corriendo) → Fresh (timer vence). Un acierto
// antes de Locked vuelve a Fresh. En Locked los intentos no incrementan
// ni reinician el timer: sólo re-reportan el tiempo restante.
type OTPService struct {
	pending  repository.PendingSignupRepository
	tokens   repository.TokenRepository
	attempts ratelimit.AttemptStore
	cfg      config.OTPConfig
}

// NewOTPService construye el motor de OTP.
func NewOTPService(pending repository.PendingSignupRepository, tokens repository.TokenRepository, attempts ratelimit.AttemptStore, cfg config.OTPConfig) *OTPService {
	return &OTPService{pending: pending, tokens: tokens, attempts: attempts, cfg: cfg}
}

// NewCode genera un código numérico de longitud fija con crypto/rand.
func (s *OTPService) NewCode() (string, error) {
	digits := make([]byte, s.cfg.Length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0') + byte(n.Int64())
	}
	return string(digits), nil
}

// ExpiresAt devuelve el vencimiento de un código emitido ahora.
func (s *OTPService) ExpiresAt() time.Time {
	return time.Now().UTC().Add(s.cfg.TTL)
}

// VerifySignup verifica el OTP de un pre-registro. En acierto devuelve el
// registro para promoverlo a User; el caller lo borra al completar la
// promoción (ese borrado es el consumo).
func (s *OTPService) VerifySignup(email, submitted string) (*entity.PendingSignup, error) {
	if err := s.checkLock(email); err != nil {
		return nil, err
	}
	p, err := s.pending.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Expired(time.Now().UTC()) {
		return nil, domain.ErrNotFound
	}
	if err := s.compare(email, p.OTP, submitted); err != nil {
		return nil, err
	}
	return p, nil
}

// VerifyLedger verifica el OTP de una entrada del ledger (reset-password o
// verify-email) y la consume de forma atómica: ante dos verificaciones
// concurrentes exactamente una gana, la otra ve el registro ya ausente.
func (s *OTPService) VerifyLedger(user *entity.User, tokenType, submitted string) (*entity.TokenLedgerEntry, error) {
	if err := s.checkLock(user.Email); err != nil {
		return nil, err
	}
	e, err := s.tokens.GetByUserAndType(user.ID, tokenType)
	if err != nil {
		return nil, err
	}
	if e == nil || e.Blacklisted || e.Expired(time.Now().UTC()) {
		return nil, domain.ErrNotFound
	}
	if e.OTP == "" {
		// Entrada sin código: el OTP de este flujo ya fue consumido y lo que
		// queda es el token post-verificación. Un replay del paso de OTP no
		// encuentra nada que verificar y no quema intentos.
		return nil, domain.ErrNotFound
	}
	if err := s.compare(user.Email, e.OTP, submitted); err != nil {
		attempts := e.OTPAttempts + 1
		if attemptsErr := s.tokens.UpdateOTPAttempts(e.JTI, attempts); attemptsErr != nil {
			return nil, attemptsErr
		}
		// El contador persistido participa del umbral: sobrevive reinicios
		// del proceso aunque el AttemptStore en memoria arranque de cero.
		if attempts >= s.cfg.MaxAttempts {
			if lockErr := s.attempts.Lock(otpKey(user.Email), s.cfg.LockDuration); lockErr != nil {
				return nil, lockErr
			}
			return nil, &ratelimit.LockError{Remaining: s.cfg.LockDuration, Err: domain.ErrTooManyAttempts}
		}
		return nil, err
	}
	consumed, err := s.tokens.Consume(e.JTI)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// Otro verificador concurrente ganó la carrera.
		return nil, domain.ErrRevokedToken
	}
	return e, nil
}

// compare es la comparación más sensible del sistema: igualdad exacta de
// strings, exigiendo explícitamente que el valor guardado Y el enviado sean
// no vacíos. Un valor enviado ausente jamás puede actuar como comodín ni
// coincidir con nada, aunque nunca se haya emitido un OTP.
func (s *OTPService) compare(email, stored, submitted string) error {
	if stored == "" || submitted == "" || stored != submitted {
		return s.registerFailure(email)
	}
	if err := s.attempts.Clear(otpKey(email)); err != nil {
		return err
	}
	return nil
}

// checkLock re-reporta el tiempo restante si la clave está en Locked, sin
// tocar contador ni timer.
func (s *OTPService) checkLock(email string) error {
	a, found, err := s.attempts.Get(otpKey(email))
	if err != nil {
		return err
	}
	now := time.Now()
	if found && a.Locked(now) {
		return &ratelimit.LockError{Remaining: a.LockedUntil.Sub(now), Err: domain.ErrTooManyAttempts}
	}
	return nil
}

// registerFailure incrementa el contador; al llegar al umbral N fija el
// castigo y rechaza con TooManyAttempts, si no con InvalidOtp.
func (s *OTPService) registerFailure(email string) error {
	a, err := s.attempts.Increment(otpKey(email), s.cfg.LockDuration)
	if err != nil {
		return err
	}
	if a.Count >= s.cfg.MaxAttempts {
		if err := s.attempts.Lock(otpKey(email), s.cfg.LockDuration); err != nil {
			return err
		}
		return &ratelimit.LockError{Remaining: s.cfg.LockDuration, Err: domain.ErrTooManyAttempts}
	}
	return domain.ErrInvalidOtp
}

// ClearAttempts vuelve la clave a Fresh (éxito en otro paso del flujo).
func (s *OTPService) ClearAttempts(email string) error {
	return s.attempts.Clear(otpKey(email))
}

func otpKey(email string) string {
	return "otp:" + email
}
