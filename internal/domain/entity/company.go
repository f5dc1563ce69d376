package entity

import "time"

// Company representa una organización/tenant del sistema. Todo template,
// screen o playlist creado por un usuario queda sellado con la Company
// vigente de ese usuario al momento de crearlo.
type Company struct {
	ID        string
	Name      string // único global
	OwnerID   string // usuario que creó la empresa
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
