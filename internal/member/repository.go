package member

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const memberColumns = `id, gym_id, member_code, name, email, phone_number, age,
	membership_status, join_date, expiry_date, plan_id, membership_type,
	plan_price_cents, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Member) (*Member, error) {
	query := fmt.Sprintf(`
		INSERT INTO members (gym_id, member_code, name, email, phone_number, age,
			membership_status, join_date, expiry_date, plan_id, membership_type, plan_price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s
	`, memberColumns)

	var created Member
	err := r.db.GetContext(ctx, &created, query,
		m.GymID, m.MemberCode, m.Name, m.Email, m.PhoneNumber, m.Age,
		m.MembershipStatus, m.JoinDate, m.ExpiryDate, m.PlanID, m.MembershipType, m.PlanPriceCents)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM members WHERE id = $1`, memberColumns)

	var m Member
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByCode(ctx context.Context, gymID int, code string) (*Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM members WHERE gym_id = $1 AND member_code = $2`, memberColumns)

	var m Member
	err := r.db.GetContext(ctx, &m, query, gymID, code)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM members WHERE gym_id = $1 ORDER BY name ASC`, memberColumns)

	var members []Member
	err := r.db.SelectContext(ctx, &members, query, gymID)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *repository) ListByIDs(ctx context.Context, gymID int, ids []int) ([]Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM members WHERE gym_id = $1 AND id = ANY($2)`, memberColumns)

	var members []Member
	err := r.db.SelectContext(ctx, &members, query, gymID, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *repository) UpdateStatus(ctx context.Context, gymID int, ids []int, status string) (int, error) {
	query := `
		UPDATE members
		SET membership_status = $3
		WHERE gym_id = $1 AND id = ANY($2)
	`

	result, err := r.db.ExecContext(ctx, query, gymID, pq.Array(ids), status)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}

func (r *repository) UpdatePlan(ctx context.Context, id, planID int, membershipType string, priceCents int64, expiry time.Time) (*Member, error) {
	query := fmt.Sprintf(`
		UPDATE members
		SET plan_id = $2, membership_type = $3, plan_price_cents = $4, expiry_date = $5
		WHERE id = $1
		RETURNING %s
	`, memberColumns)

	var m Member
	err := r.db.GetContext(ctx, &m, query, id, planID, membershipType, priceCents, expiry)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) UpdateExpiry(ctx context.Context, id int, status string, expiry time.Time) (*Member, error) {
	query := fmt.Sprintf(`
		UPDATE members
		SET membership_status = $2, expiry_date = $3
		WHERE id = $1
		RETURNING %s
	`, memberColumns)

	var m Member
	err := r.db.GetContext(ctx, &m, query, id, status, expiry)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) CodeExists(ctx context.Context, gymID int, code string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM members
			WHERE gym_id = $1 AND member_code = $2
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, gymID, code)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Delete removes a member and all of their check-in sessions in one
// transaction. The schema does not cascade; the owning side does.
func (r *repository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM check_ins WHERE member_id = $1`, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}
