package postgres

import (
	"context"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

const artistViewColumns = `
	a.id, a.user_id, a.biography, a.specialties, a.hourly_rate,
	a.commission_percent, a.active, u.first_name, u.last_name
`

func (r *artistRepository) Get(ctx context.Context, id int64) (*model.ArtistView, error) {
	query := `
		SELECT ` + artistViewColumns + `
		FROM artists a
		JOIN users u ON a.user_id = u.id
		WHERE a.id = $1
	`
	var artist model.ArtistView
	if err := r.db.GetContext(ctx, &artist, query, id); err != nil {
		return nil, apperrors.FromStore("artist", err)
	}
	return &artist, nil
}

func (r *artistRepository) List(ctx context.Context) ([]*model.ArtistView, error) {
	query := `
		SELECT ` + artistViewColumns + `
		FROM artists a
		JOIN users u ON a.user_id = u.id
		WHERE a.active = true
		ORDER BY u.first_name ASC
	`
	var artists []*model.ArtistView
	if err := r.db.SelectContext(ctx, &artists, query); err != nil {
		return nil, apperrors.FromStore("artists", err)
	}
	return artists, nil
}
