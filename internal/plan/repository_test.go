package plan

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func planColumns() []string {
	return []string{"id", "gym_id", "name", "price_cents", "duration_months", "created_at"}
}

func TestCreatePlan(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO plans (gym_id, name, price_cents, duration_months) VALUES ($1, $2, $3, $4) RETURNING id, gym_id, name, price_cents, duration_months, created_at")).
		WithArgs(1, "Monthly", int64(4999), 1).
		WillReturnRows(sqlmock.NewRows(planColumns()).AddRow(3, 1, "Monthly", 4999, 1, now))

	p, err := repo.CreatePlan(ctx, 1, "Monthly", 4999, 1)
	require.NoError(t, err)
	require.Equal(t, 3, p.ID)
	require.Equal(t, int64(4999), p.PriceCents)
}

func TestGetPlansByGym(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, gym_id, name, price_cents, duration_months, created_at FROM plans WHERE gym_id = $1 ORDER BY price_cents ASC")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(planColumns()).
			AddRow(1, 1, "Monthly", 4999, 1, now).
			AddRow(2, 1, "Annual", 49999, 12, now))

	plans, err := repo.GetPlansByGym(ctx, 1)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	require.Equal(t, 12, plans[1].DurationMonths)
}

func TestGetPlanByID(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, gym_id, name, price_cents, duration_months, created_at FROM plans WHERE id = $1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(planColumns()).AddRow(2, 1, "Annual", 49999, 12, now))

	p, err := repo.GetPlanByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Annual", p.Name)
}
