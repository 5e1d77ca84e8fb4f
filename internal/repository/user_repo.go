package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sarank1634/quiz-master/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned by Create when the email unique index rejects
// the insert. Uniqueness is enforced here, at the storage layer, so two
// concurrent registrations for the same email cannot both succeed.
var ErrDuplicateEmail = errors.New("email already registered")

// DB is the subset of pgxpool.Pool the repositories use. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines operations for identity records
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id int, when time.Time) error
	SetActive(ctx context.Context, id int, active bool) (*model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role string) ([]model.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
	GetStats(ctx context.Context) (*model.UserStats, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, role, qualification, date_of_birth, is_active, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role,
		&user.Qualification, &user.DateOfBirth, &user.IsActive, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new identity record into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (email, password_hash, full_name, role, qualification, date_of_birth, is_active, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		user.Email, user.PasswordHash, user.FullName, user.Role,
		user.Qualification, user.DateOfBirth, user.IsActive, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves an active identity by email. Inactive identities are
// invisible here so they cannot authenticate.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active = TRUE`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves an identity by ID regardless of active state, so callers
// resolving tokens can observe a deactivation.
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// UpdateLastLogin records the time of a successful authentication
func (r *userRepository) UpdateLastLogin(ctx context.Context, id int, when time.Time) error {
	sql := `UPDATE users SET last_login = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, sql, when, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// SetActive toggles the soft-delete flag and returns the updated record, or
// nil when no identity has the given ID.
func (r *userRepository) SetActive(ctx context.Context, id int, active bool) (*model.User, error) {
	sql := `UPDATE users SET is_active = $1 WHERE id = $2 RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRow(ctx, sql, active, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to set user active state: %w", err)
	}
	return user, nil
}

// ListAll returns every identity record, newest first
func (r *userRepository) ListAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListByRole returns identities holding the given role, newest first
func (r *userRepository) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// CountByRole counts identities holding the given role
func (r *userRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	sql := `SELECT COUNT(*) FROM users WHERE role = $1`
	if err := r.db.QueryRow(ctx, sql, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

// GetStats aggregates directory-wide counts in a single query
func (r *userRepository) GetStats(ctx context.Context) (*model.UserStats, error) {
	stats := &model.UserStats{}
	sql := `SELECT COUNT(*),
	               COUNT(*) FILTER (WHERE role = 'admin'),
	               COUNT(*) FILTER (WHERE role = 'user'),
	               COUNT(*) FILTER (WHERE is_active),
	               COUNT(*) FILTER (WHERE NOT is_active)
	        FROM users`
	err := r.db.QueryRow(ctx, sql).Scan(
		&stats.TotalUsers, &stats.AdminCount, &stats.UserCount,
		&stats.ActiveCount, &stats.InactiveCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user stats: %w", err)
	}
	return stats, nil
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	var users []model.User
	for rows.Next() {
		user := model.User{}
		err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role,
			&user.Qualification, &user.DateOfBirth, &user.IsActive, &user.LastLogin,
			&user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}
