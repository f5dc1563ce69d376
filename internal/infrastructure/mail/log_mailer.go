package mail

import (
	"github.com/jhoicas/Pantallas-api/internal/application/auth"
	"github.com/jhoicas/Pantallas-api/pkg/logger"
)

var _ auth.Mailer = (*LogMailer)(nil)

// LogMailer implementación de desarrollo del puerto Mailer: escribe el OTP
// al log estructurado en lugar de enviarlo. El envío real vive fuera de
// este servicio.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendOTP registra el código en el log.
func (m *LogMailer) SendOTP(email, purpose, code string) error {
	m.log.Info().
		Str("email", email).
		Str("purpose", purpose).
		Str("otp", code).
		Msg("OTP emitido (mailer de desarrollo)")
	return nil
}
