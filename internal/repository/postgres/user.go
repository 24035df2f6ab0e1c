package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

func (r *userRepository) Create(ctx context.Context, q sqlx.ExtContext, user *model.User) error {
	query := `
		INSERT INTO users (
			role_id, username, first_name, last_name, email, phone,
			password_hash, active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8)
		RETURNING id
	`
	user.Active = true
	user.CreatedAt = time.Now()

	err := sqlx.GetContext(ctx, q, &user.ID, query,
		user.RoleID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		return apperrors.FromStore("user", err)
	}
	return nil
}

func (r *userRepository) CreateArtist(ctx context.Context, q sqlx.ExtContext, artist *model.Artist) error {
	query := `
		INSERT INTO artists (
			user_id, biography, specialties, hourly_rate, commission_percent, active
		) VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id
	`
	artist.Active = true

	err := sqlx.GetContext(ctx, q, &artist.ID, query,
		artist.UserID,
		artist.Biography,
		artist.Specialties,
		artist.HourlyRate,
		artist.CommissionPercent,
	)
	if err != nil {
		return apperrors.FromStore("artist", err)
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, role_id, username, first_name, last_name, email, phone,
			   password_hash, active, created_at
		FROM users
		WHERE username = $1
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, apperrors.FromStore("user", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT id, role_id, username, first_name, last_name, email, phone,
			   password_hash, active, created_at
		FROM users
		ORDER BY role_id, username ASC
	`
	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, apperrors.FromStore("users", err)
	}
	return users, nil
}
