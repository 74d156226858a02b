package plan

import "time"

type Plan struct {
	ID             int       `db:"id" json:"id"`
	GymID          int       `db:"gym_id" json:"gym_id"`
	Name           string    `db:"name" json:"name"`
	PriceCents     int64     `db:"price_cents" json:"price_cents"`
	DurationMonths int       `db:"duration_months" json:"duration_months"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type CreatePlanRequest struct {
	Name           string `json:"name" binding:"required"`
	PriceCents     int64  `json:"price_cents" binding:"required,min=0"`
	DurationMonths int    `json:"duration_months" binding:"required,min=1"`
}
