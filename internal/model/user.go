package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role IDs match the seed data of the original schema.
const (
	RoleAdmin  int64 = 1
	RoleArtist int64 = 2
	RoleFront  int64 = 3
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	RoleID       int64     `db:"role_id" json:"role_id"`
	Username     string    `db:"username" json:"username"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Artist wraps a user identity with studio-specific attributes. Immutable
// for lifecycle purposes; appointments only reference it.
type Artist struct {
	ID                int64            `db:"id" json:"id"`
	UserID            int64            `db:"user_id" json:"user_id"`
	Biography         *string          `db:"biography" json:"biography,omitempty"`
	Specialties       *string          `db:"specialties" json:"specialties,omitempty"`
	HourlyRate        *decimal.Decimal `db:"hourly_rate" json:"hourly_rate,omitempty"`
	CommissionPercent *decimal.Decimal `db:"commission_percent" json:"commission_percent,omitempty"`
	Active            bool             `db:"active" json:"active"`
}

// ArtistView joins in the user's display name.
type ArtistView struct {
	Artist
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

type RegisterUserRequest struct {
	RoleID    int64  `json:"role_id" validate:"required"`
	Username  string `json:"username" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required,min=8"`

	// Artist attributes, applied only when RoleID is RoleArtist.
	Biography         string           `json:"biography"`
	Specialties       string           `json:"specialties"`
	HourlyRate        *decimal.Decimal `json:"hourly_rate"`
	CommissionPercent *decimal.Decimal `json:"commission_percent"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
