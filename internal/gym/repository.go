package gym

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

func (r *repository) CreateGym(ctx context.Context, name, location string) (*Gym, error) {
	query := `
		INSERT INTO gyms (name, location)
		VALUES ($1, $2)
		RETURNING id, name, location, session_time_hours, max_capacity, created_at
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, name, location)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	query := `
		SELECT id, name, location, session_time_hours, max_capacity, created_at
		FROM gyms
		ORDER BY created_at DESC
	`

	var gyms []Gym
	err := r.db.SelectContext(ctx, &gyms, query)
	if err != nil {
		return nil, err
	}

	return gyms, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	query := `
		SELECT id, name, location, session_time_hours, max_capacity, created_at
		FROM gyms
		WHERE id = $1
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) UpdateSettings(ctx context.Context, id int, sessionTimeHours, maxCapacity *int) (*Gym, error) {
	query := `
		UPDATE gyms
		SET session_time_hours = COALESCE($2, session_time_hours),
		    max_capacity = COALESCE($3, max_capacity)
		WHERE id = $1
		RETURNING id, name, location, session_time_hours, max_capacity, created_at
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id, sessionTimeHours, maxCapacity)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}
