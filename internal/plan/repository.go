package plan

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

func (r *repository) CreatePlan(ctx context.Context, gymID int, name string, priceCents int64, durationMonths int) (*Plan, error) {
	query := `
		INSERT INTO plans (gym_id, name, price_cents, duration_months)
		VALUES ($1, $2, $3, $4)
		RETURNING id, gym_id, name, price_cents, duration_months, created_at
	`

	var plan Plan
	err := r.db.GetContext(ctx, &plan, query, gymID, name, priceCents, durationMonths)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *repository) GetPlanByID(ctx context.Context, id int) (*Plan, error) {
	query := `
		SELECT id, gym_id, name, price_cents, duration_months, created_at
		FROM plans
		WHERE id = $1
	`

	var plan Plan
	err := r.db.GetContext(ctx, &plan, query, id)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *repository) GetPlansByGym(ctx context.Context, gymID int) ([]Plan, error) {
	query := `
		SELECT id, gym_id, name, price_cents, duration_months, created_at
		FROM plans
		WHERE gym_id = $1
		ORDER BY price_cents ASC
	`

	var plans []Plan
	err := r.db.SelectContext(ctx, &plans, query, gymID)
	if err != nil {
		return nil, err
	}

	return plans, nil
}
