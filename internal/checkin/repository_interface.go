package checkin

import (
	"context"
	"time"
)

type Repository interface {
	// CreateSession inserts a session, failing with
	// ErrActiveSessionExists if the member already has a session whose
	// checkout time is after checkIn. The overlap check and the insert
	// run in one transaction.
	CreateSession(ctx context.Context, memberID, gymID int, checkIn, checkOut time.Time) (*Session, error)
	CountActive(ctx context.Context, gymID int, now time.Time) (int, error)
	ListRecentByGym(ctx context.Context, gymID, limit int) ([]SessionWithMember, error)
}
