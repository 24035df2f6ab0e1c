package model

import (
	"time"
)

// Client holds identity, contact and sensitive medical fields. Clients are
// never hard-deleted by the lifecycle; the delete endpoint exists for
// administrative cleanup only.
type Client struct {
	ID           int64      `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     *string    `db:"last_name" json:"last_name,omitempty"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	BirthDate    *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Allergies    *string    `db:"allergies" json:"allergies,omitempty"`
	MedicalNotes *string    `db:"medical_notes" json:"medical_notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateClientRequest struct {
	FirstName    string     `json:"first_name" validate:"required"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email" validate:"omitempty,email"`
	Phone        string     `json:"phone"`
	BirthDate    *time.Time `json:"birth_date"`
	Allergies    string     `json:"allergies"`
	MedicalNotes string     `json:"medical_notes"`
}

type ClientPatch struct {
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	Email        *string    `json:"email"`
	Phone        *string    `json:"phone"`
	BirthDate    *time.Time `json:"birth_date"`
	Allergies    *string    `json:"allergies"`
	MedicalNotes *string    `json:"medical_notes"`
}

func (p *ClientPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Phone == nil && p.BirthDate == nil && p.Allergies == nil &&
		p.MedicalNotes == nil
}
