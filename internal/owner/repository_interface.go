package owner

import "context"

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*Owner, error)
	FindByEmail(ctx context.Context, email string) (*Owner, error)
	FindByID(ctx context.Context, id int) (*Owner, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
