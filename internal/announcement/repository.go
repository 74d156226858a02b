package announcement

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, gymID int, title, body string) (*Announcement, error) {
	var a Announcement
	err := r.db.GetContext(ctx, &a, `
		INSERT INTO announcements (gym_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id, gym_id, title, body, created_at`,
		gymID, title, body)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]Announcement, error) {
	announcements := []Announcement{}
	err := r.db.SelectContext(ctx, &announcements, `
		SELECT id, gym_id, title, body, created_at
		FROM announcements
		WHERE gym_id = $1
		ORDER BY created_at DESC`,
		gymID)
	if err != nil {
		return nil, err
	}
	return announcements, nil
}
