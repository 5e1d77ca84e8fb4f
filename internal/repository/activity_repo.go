package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sarank1634/quiz-master/internal/model"
)

// LoginActivityRepository persists the login/logout audit trail
type LoginActivityRepository interface {
	Record(ctx context.Context, activity *model.LoginActivity) error
	ListByUser(ctx context.Context, userID int, limit int) ([]model.LoginActivity, error)
	CountLoginsSince(ctx context.Context, since time.Time) (int, error)
}

type loginActivityRepository struct {
	db DB
}

// NewLoginActivityRepository creates a new LoginActivityRepository
func NewLoginActivityRepository(db DB) LoginActivityRepository {
	return &loginActivityRepository{db: db}
}

// Record inserts an audit row for a login or logout attempt
func (r *loginActivityRepository) Record(ctx context.Context, a *model.LoginActivity) error {
	sql := `INSERT INTO login_activity (user_id, action, success, ip_address, user_agent, message, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql,
		a.UserID, a.Action, a.Success, a.IPAddress, a.UserAgent, a.Message, a.CreatedAt,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record login activity: %w", err)
	}
	return nil
}

// ListByUser returns the most recent audit rows for a user
func (r *loginActivityRepository) ListByUser(ctx context.Context, userID int, limit int) ([]model.LoginActivity, error) {
	if limit <= 0 {
		limit = 50
	}
	sql := `SELECT id, user_id, action, success, ip_address, user_agent, message, created_at
            FROM login_activity WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(ctx, sql, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list login activity: %w", err)
	}
	defer rows.Close()

	var activities []model.LoginActivity
	for rows.Next() {
		a := model.LoginActivity{}
		err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.Success, &a.IPAddress, &a.UserAgent, &a.Message, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan login activity row: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating login activity rows: %w", err)
	}
	return activities, nil
}

// CountLoginsSince counts successful logins after the given time
func (r *loginActivityRepository) CountLoginsSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	sql := `SELECT COUNT(*) FROM login_activity WHERE action = 'login' AND success = TRUE AND created_at >= $1`
	if err := r.db.QueryRow(ctx, sql, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recent logins: %w", err)
	}
	return count, nil
}
