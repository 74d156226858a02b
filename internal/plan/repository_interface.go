package plan

import "context"

type Repository interface {
	CreatePlan(ctx context.Context, gymID int, name string, priceCents int64, durationMonths int) (*Plan, error)
	GetPlanByID(ctx context.Context, id int) (*Plan, error)
	GetPlansByGym(ctx context.Context, gymID int) ([]Plan, error)
}
