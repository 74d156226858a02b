package member

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, m *Member) (*Member, error)
	FindByID(ctx context.Context, id int) (*Member, error)
	FindByCode(ctx context.Context, gymID int, code string) (*Member, error)
	ListByGym(ctx context.Context, gymID int) ([]Member, error)
	ListByIDs(ctx context.Context, gymID int, ids []int) ([]Member, error)
	UpdateStatus(ctx context.Context, gymID int, ids []int, status string) (int, error)
	UpdatePlan(ctx context.Context, id, planID int, membershipType string, priceCents int64, expiry time.Time) (*Member, error)
	UpdateExpiry(ctx context.Context, id int, status string, expiry time.Time) (*Member, error)
	CodeExists(ctx context.Context, gymID int, code string) (bool, error)
	Delete(ctx context.Context, id int) error
}
