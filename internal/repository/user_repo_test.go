package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sarank1634/quiz-master/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "password_hash", "full_name", "role", "qualification", "date_of_birth", "is_active", "last_login", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestUserRepository_Create(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	user := &model.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		FullName:     "Alice A",
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(user.Email, user.PasswordHash, user.FullName, user.Role,
			user.Qualification, user.DateOfBirth, user.IsActive, user.CreatedAt, user.UpdatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

	err := repo.Create(context.Background(), user)

	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	user := &model.User{Email: "alice@example.com", Role: model.RoleUser}
	err := repo.Create(context.Background(), user)

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1 AND is_active = TRUE`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(1, "alice@example.com", "hash", "Alice A", "user", nil, nil, true, nil, now, now))

	user, err := repo.FindByEmail(context.Background(), "alice@example.com")

	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1 AND is_active = TRUE`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByEmail(context.Background(), "ghost@example.com")

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_IgnoresActiveFlag(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	// Deactivated identities must still be resolvable by ID so token
	// verification can observe the deactivation.
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(7, "bob@example.com", "hash", "Bob B", "user", nil, nil, false, nil, now, now))

	user, err := repo.FindByID(context.Background(), 7)

	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	mock, repo := newMockRepo(t)

	when := time.Now()
	mock.ExpectExec(`UPDATE users SET last_login = \$1 WHERE id = \$2`).
		WithArgs(when, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateLastLogin(context.Background(), 1, when)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetActive_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`UPDATE users SET is_active = \$1 WHERE id = \$2 RETURNING`).
		WithArgs(false, 99).
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.SetActive(context.Background(), 99, false)

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListAll(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM users ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(2, "bob@example.com", "hash2", "Bob B", "admin", nil, nil, true, nil, now, now).
			AddRow(1, "alice@example.com", "hash1", "Alice A", "user", nil, nil, true, nil, now, now))

	users, err := repo.ListAll(context.Background())

	assert.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob@example.com", users[0].Email)
	assert.Equal(t, "alice@example.com", users[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CountByRole(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \$1`).
		WithArgs(model.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountByRole(context.Background(), model.RoleAdmin)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetStats(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\),`).
		WillReturnRows(pgxmock.NewRows([]string{"total", "admins", "users", "active", "inactive"}).
			AddRow(5, 1, 4, 4, 1))

	stats, err := repo.GetStats(context.Background())

	assert.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 5, stats.TotalUsers)
	assert.Equal(t, 1, stats.AdminCount)
	assert.Equal(t, 4, stats.UserCount)
	assert.Equal(t, 4, stats.ActiveCount)
	assert.Equal(t, 1, stats.InactiveCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
