package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sarank1634/quiz-master/internal/model"
	"github.com/sarank1634/quiz-master/internal/repository"
)

// UserService exposes the administrative directory operations
type UserService interface {
	ListUsers(ctx context.Context, role string) ([]model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	SetUserActive(ctx context.Context, id int, active bool) (*model.User, error)
	GetUserActivity(ctx context.Context, id int, limit int) ([]model.LoginActivity, error)
	GetStats(ctx context.Context) (*model.UserStats, error)
}

type userService struct {
	userRepo     repository.UserRepository
	activityRepo repository.LoginActivityRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, activityRepo repository.LoginActivityRepository) UserService {
	return &userService{userRepo: userRepo, activityRepo: activityRepo}
}

// ListUsers returns all identities, optionally filtered by role
func (s *userService) ListUsers(ctx context.Context, role string) ([]model.User, error) {
	if role != "" {
		return s.userRepo.ListByRole(ctx, role)
	}
	return s.userRepo.ListAll(ctx)
}

// GetUser fetches a single identity by ID
func (s *userService) GetUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// SetUserActive toggles the soft-delete flag. Outstanding tokens for a
// deactivated identity die at the next middleware re-fetch.
func (s *userService) SetUserActive(ctx context.Context, id int, active bool) (*model.User, error) {
	user, err := s.userRepo.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("failed to update user active state: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetUserActivity returns the recent login/logout audit trail for a user
func (s *userService) GetUserActivity(ctx context.Context, id int, limit int) ([]model.LoginActivity, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.activityRepo.ListByUser(ctx, id, limit)
}

// GetStats aggregates directory counts plus successful logins from the last 24h
func (s *userService) GetStats(ctx context.Context) (*model.UserStats, error) {
	stats, err := s.userRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.activityRepo.CountLoginsSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	stats.RecentLogins = recent
	return stats, nil
}
