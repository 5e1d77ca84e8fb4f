package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sarank1634/quiz-master/internal/model"
	"github.com/sarank1634/quiz-master/internal/repository"
	"github.com/sarank1634/quiz-master/internal/utils"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists with this email")
	ErrAdminAlreadyExists = errors.New("admin user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// RegisterInput carries the fields accepted at registration
type RegisterInput struct {
	Email         string
	Password      string
	FullName      string
	Qualification *string
	DateOfBirth   *time.Time
}

// RequestMeta carries transport-level details recorded in the audit trail
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	CreateAdmin(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string, meta RequestMeta) (*model.User, string, error)
	Logout(ctx context.Context, userID int, meta RequestMeta) error
	GetProfile(ctx context.Context, userID int) (*model.User, error)
}

type authService struct {
	userRepo          repository.UserRepository
	activityRepo      repository.LoginActivityRepository
	jwtUtil           *utils.JWTUtil
	initialAdminEmail string
	logger            *slog.Logger
}

// NewAuthService creates a new AuthService. initialAdminEmail, when non-empty,
// promotes the matching registration to the admin role.
func NewAuthService(userRepo repository.UserRepository, activityRepo repository.LoginActivityRepository, jwtUtil *utils.JWTUtil, initialAdminEmail string, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:          userRepo,
		activityRepo:      activityRepo,
		jwtUtil:           jwtUtil,
		initialAdminEmail: initialAdminEmail,
		logger:            logger,
	}
}

// Register creates a new identity with the user role and issues a token
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	role := model.RoleUser
	if s.initialAdminEmail != "" && in.Email == s.initialAdminEmail {
		role = model.RoleAdmin
		s.logger.Info("registering initial admin", slog.String("email", in.Email))
	}
	return s.create(ctx, in, role)
}

// CreateAdmin creates an admin identity. It only succeeds while no admin
// exists, so the endpoint is usable for first-run bootstrap and inert after.
func (s *authService) CreateAdmin(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	count, err := s.userRepo.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if count > 0 {
		return nil, "", ErrAdminAlreadyExists
	}
	return s.create(ctx, in, model.RoleAdmin)
}

func (s *authService) create(ctx context.Context, in RegisterInput, role string) (*model.User, string, error) {
	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		Email:         strings.TrimSpace(in.Email),
		PasswordHash:  hashedPassword,
		FullName:      in.FullName,
		Role:          role,
		Qualification: in.Qualification,
		DateOfBirth:   in.DateOfBirth,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// The unique index on email decides duplicates; no read-then-write check.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("user created but token generation failed",
			slog.String("email", user.Email), slog.Int("user_id", user.ID), slog.Any("error", err))
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates an identity and returns it with a fresh token. All
// failure causes collapse into ErrInvalidCredentials so the response cannot
// reveal whether the email exists.
func (s *authService) Login(ctx context.Context, email, password string, meta RequestMeta) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil { // Unknown email or deactivated identity
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.recordActivity(ctx, user.ID, model.ActivityLogin, false, meta, "password mismatch")
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, "", fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	s.recordActivity(ctx, user.ID, model.ActivityLogin, true, meta, "")

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Logout records a logout audit row. Tokens are stateless and stay valid
// until expiry; deactivation is the revocation mechanism.
func (s *authService) Logout(ctx context.Context, userID int, meta RequestMeta) error {
	s.recordActivity(ctx, userID, model.ActivityLogout, true, meta, "")
	return nil
}

// GetProfile retrieves the identity behind a verified token
func (s *authService) GetProfile(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// recordActivity writes an audit row best-effort; audit failures never fail
// the authentication call itself.
func (s *authService) recordActivity(ctx context.Context, userID int, action string, success bool, meta RequestMeta, message string) {
	activity := &model.LoginActivity{
		UserID:    userID,
		Action:    action,
		Success:   success,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.activityRepo.Record(ctx, activity); err != nil {
		s.logger.Error("failed to record login activity",
			slog.Int("user_id", userID), slog.String("action", action), slog.Any("error", err))
	}
}
