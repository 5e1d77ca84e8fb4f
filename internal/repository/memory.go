package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sarank1634/quiz-master/internal/model"
)

// MemoryUserRepository is an in-memory UserRepository used in tests and local
// experimentation. It mirrors the storage-layer uniqueness guarantee of the
// Postgres implementation.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	nextID  int
	byID    map[int]*model.User
	byEmail map[string]int
}

// NewMemoryUserRepository builds an empty in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		nextID:  1,
		byID:    make(map[int]*model.User),
		byEmail: make(map[string]int),
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}

	user.ID = r.nextID
	r.nextID++

	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	user := r.byID[id]
	if !user.IsActive {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *MemoryUserRepository) UpdateLastLogin(ctx context.Context, id int, when time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byID[id]; ok {
		t := when
		user.LastLogin = &t
	}
	return nil
}

func (r *MemoryUserRepository) SetActive(ctx context.Context, id int, active bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	user.IsActive = active
	user.UpdatedAt = time.Now()
	clone := *user
	return &clone, nil
}

func (r *MemoryUserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, *user)
	}
	return users, nil
}

func (r *MemoryUserRepository) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []model.User
	for _, user := range r.byID {
		if user.Role == role {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, user := range r.byID {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *MemoryUserRepository) GetStats(ctx context.Context) (*model.UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &model.UserStats{}
	for _, user := range r.byID {
		stats.TotalUsers++
		switch user.Role {
		case model.RoleAdmin:
			stats.AdminCount++
		case model.RoleUser:
			stats.UserCount++
		}
		if user.IsActive {
			stats.ActiveCount++
		} else {
			stats.InactiveCount++
		}
	}
	return stats, nil
}

// MemoryLoginActivityRepository is an in-memory LoginActivityRepository
type MemoryLoginActivityRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []model.LoginActivity
}

// NewMemoryLoginActivityRepository builds an empty in-memory activity repository
func NewMemoryLoginActivityRepository() *MemoryLoginActivityRepository {
	return &MemoryLoginActivityRepository{nextID: 1}
}

func (r *MemoryLoginActivityRepository) Record(ctx context.Context, activity *model.LoginActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, *activity)
	return nil
}

func (r *MemoryLoginActivityRepository) ListByUser(ctx context.Context, userID int, limit int) ([]model.LoginActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	var out []model.LoginActivity
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *MemoryLoginActivityRepository) CountLoginsSince(ctx context.Context, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, e := range r.entries {
		if e.Action == model.ActivityLogin && e.Success && !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
