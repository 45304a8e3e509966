package repository

import (
	"database/sql"
	"errors"

	"github.com/hyperdrift-io/need-to-know/internal/model"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetProfile returns nil without error when no profile exists for id.
func (r *ProfileRepository) GetProfile(id string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.QueryRow(`
		SELECT id, email, is_premium, created_at
		FROM profiles
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Email, &p.IsPremium, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
