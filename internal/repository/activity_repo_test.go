package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sarank1634/quiz-master/internal/model"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginActivityRepository_Record(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewLoginActivityRepository(mock)

	now := time.Now()
	activity := &model.LoginActivity{
		UserID:    1,
		Action:    model.ActivityLogin,
		Success:   true,
		IPAddress: "127.0.0.1",
		UserAgent: "go-test",
		CreatedAt: now,
	}

	mock.ExpectQuery(`INSERT INTO login_activity`).
		WithArgs(1, model.ActivityLogin, true, "127.0.0.1", "go-test", "", activity.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), now))

	err = repo.Record(context.Background(), activity)

	assert.NoError(t, err)
	assert.Equal(t, int64(10), activity.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginActivityRepository_ListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewLoginActivityRepository(mock)

	now := time.Now()
	cols := []string{"id", "user_id", "action", "success", "ip_address", "user_agent", "message", "created_at"}
	mock.ExpectQuery(`SELECT .+ FROM login_activity WHERE user_id = \$1`).
		WithArgs(1, 50). // zero limit defaults to 50
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(2), 1, "logout", true, "", "", "", now).
			AddRow(int64(1), 1, "login", true, "", "", "", now.Add(-time.Minute)))

	activity, err := repo.ListByUser(context.Background(), 1, 0)

	assert.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, model.ActivityLogout, activity[0].Action)
	assert.Equal(t, model.ActivityLogin, activity[1].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginActivityRepository_CountLoginsSince(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewLoginActivityRepository(mock)

	since := time.Now().Add(-24 * time.Hour)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM login_activity`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountLoginsSince(context.Background(), since)

	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
