package announcement

import "context"

type Repository interface {
	Create(ctx context.Context, gymID int, title, body string) (*Announcement, error)
	ListByGym(ctx context.Context, gymID int) ([]Announcement, error)
}
