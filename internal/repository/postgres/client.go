package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

const clientColumns = `
	id, first_name, last_name, email, phone, birth_date, allergies,
	medical_notes, created_at, updated_at
`

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (
			first_name, last_name, email, phone, birth_date,
			allergies, medical_notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt

	err := r.db.GetContext(ctx, &client.ID, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.BirthDate,
		client.Allergies,
		client.MedicalNotes,
		client.CreatedAt,
	)
	if err != nil {
		return apperrors.FromStore("client", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id int64) (*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	var client model.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, apperrors.FromStore("client", err)
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY id ASC`
	var clients []*model.Client
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, apperrors.FromStore("clients", err)
	}
	return clients, nil
}

func (r *clientRepository) ApplyPatch(ctx context.Context, id int64, patch *model.ClientPatch) (*model.Client, error) {
	sets := []string{}
	args := []interface{}{}
	argCount := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.BirthDate != nil {
		add("birth_date", *patch.BirthDate)
	}
	if patch.Allergies != nil {
		add("allergies", *patch.Allergies)
	}
	if patch.MedicalNotes != nil {
		add("medical_notes", *patch.MedicalNotes)
	}

	if len(sets) == 0 {
		return nil, apperrors.Validation("no fields to update")
	}

	add("updated_at", time.Now())

	query := "UPDATE clients SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += fmt.Sprintf(" WHERE id = $%d RETURNING ", argCount) + clientColumns
	args = append(args, id)

	var client model.Client
	if err := r.db.GetContext(ctx, &client, query, args...); err != nil {
		return nil, apperrors.FromStore("client", err)
	}
	return &client, nil
}

func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return apperrors.FromStore("client", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Internal(err)
	}
	if rows == 0 {
		return apperrors.NotFound("client", nil)
	}
	return nil
}
