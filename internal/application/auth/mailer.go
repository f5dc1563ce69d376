package auth

// Mailer es el puerto de salida de correo. El envío real es una
// preocupación externa; acá sólo se define el contrato que consumen los
// flujos de registro y recuperación.
type Mailer interface {
	SendOTP(email, purpose, code string) error
}
