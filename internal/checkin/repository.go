package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrActiveSessionExists = errors.New("member already has an active session")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateSession serializes the overlap check and the insert per member
// by locking the member row. Two kiosk taps in the same window resolve
// to one session and one ErrActiveSessionExists.
func (r *repository) CreateSession(ctx context.Context, memberID, gymID int, checkIn, checkOut time.Time) (*Session, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var lockedID int
	err = tx.GetContext(ctx, &lockedID, `SELECT id FROM members WHERE id = $1 FOR UPDATE`, memberID)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = tx.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM check_ins
			WHERE member_id = $1 AND gym_id = $2 AND check_out_time > $3
		)
	`, memberID, gymID, checkIn)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrActiveSessionExists
	}

	query := `
		INSERT INTO check_ins (member_id, gym_id, check_in_time, check_out_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, member_id, gym_id, check_in_time, check_out_time
	`

	var session Session
	err = tx.GetContext(ctx, &session, query, memberID, gymID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &session, nil
}

// CountActive derives occupancy from the authoritative table rather
// than a cached counter.
func (r *repository) CountActive(ctx context.Context, gymID int, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM check_ins
		WHERE gym_id = $1 AND check_out_time > $2
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, gymID, now)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) ListRecentByGym(ctx context.Context, gymID, limit int) ([]SessionWithMember, error) {
	query := `
		SELECT
			c.id,
			c.member_id,
			c.gym_id,
			c.check_in_time,
			c.check_out_time,
			m.member_code AS member_code,
			m.name AS member_name
		FROM check_ins c
		JOIN members m ON c.member_id = m.id
		WHERE c.gym_id = $1
		ORDER BY c.check_in_time DESC
		LIMIT $2
	`

	var sessions []SessionWithMember
	err := r.db.SelectContext(ctx, &sessions, query, gymID, limit)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}
