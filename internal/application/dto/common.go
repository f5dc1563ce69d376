package dto

// Envelope es la respuesta tri-estado de toda la API: status legible por
// máquina, message legible por humano y data opcional.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Status conocidos del Envelope.
const (
	StatusSuccess         = "success"
	StatusError           = "error"
	StatusUnauthenticated = "unauthenticated"
	StatusForbidden       = "forbidden"
	StatusTooMany         = "too_many_requests"
	StatusNotFound        = "not_found"
	StatusConflict        = "conflict"
	StatusValidation      = "validation_error"
)

// OK arma un Envelope de éxito.
func OK(message string, data interface{}) Envelope {
	return Envelope{Status: StatusSuccess, Message: message, Data: data}
}

// Fail arma un Envelope de error con el status dado.
func Fail(status, message string) Envelope {
	return Envelope{Status: status, Message: message}
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
