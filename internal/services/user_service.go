package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
	"github.com/charlesng35/bizsuite/pkg/crypto"
	apperrors "github.com/charlesng35/bizsuite/pkg/errors"
)

// CreateUserInput describes the fields accepted when creating a user.
type CreateUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// BootstrapAdmin describes the account created on first start.
type BootstrapAdmin struct {
	Username string
	Email    string
	Password string
}

// UserService manages user accounts and credential checks.
type UserService struct {
	db           *gorm.DB
	auditService *AuditService
	now          func() time.Time
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB, auditService *AuditService) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{
		db:           db,
		auditService: auditService,
		now:          time.Now,
	}, nil
}

// Create provisions a new user with a hashed password. An empty role
// defaults to User.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" {
		return nil, apperrors.NewBadRequest("username is required")
	}
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}

	role := permissions.RoleUser
	if strings.TrimSpace(input.Role) != "" {
		parsed, ok := permissions.ParseRole(input.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		role = parsed
	}

	hashed, err := crypto.HashPassword(input.Password)
	if errors.Is(err, crypto.ErrPasswordTooShort) {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("password must be at least %d characters", crypto.MinPasswordLength))
	}
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Role:      string(role),
		IsActive:  true,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "user.create",
		Resource: fmt.Sprintf("user:%d", user.ID),
		Result:   AuditSuccess,
		Metadata: map[string]any{
			"username": user.Username,
			"role":     user.Role,
		},
	})

	return user, nil
}

// GetByID loads a user by identifier.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: get user: %w", err)
	}
	return &user, nil
}

// Exists reports whether a user with id is present.
func (s *UserService) Exists(ctx context.Context, id uint) (bool, error) {
	ctx = ensureContext(ctx)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("user service: check user: %w", err)
	}
	return count > 0, nil
}

// Authenticate verifies credentials for an active user identified by
// username or email.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if !user.IsActive || !crypto.VerifyPassword(user.Password, password) {
		recordAudit(s.auditService, ctx, AuditEntry{
			UserID:   &user.ID,
			Action:   "auth.login",
			Resource: fmt.Sprintf("user:%d", user.ID),
			Result:   AuditFailure,
		})
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("user service: record login: %w", err)
	}
	user.LastLoginAt = &now

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "auth.login",
		Resource: fmt.Sprintf("user:%d", user.ID),
		Result:   AuditSuccess,
	})

	return &user, nil
}

// EnsureBootstrapAdmin creates the configured administrator when no Admin
// account exists yet. It reports whether an account was created.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, admin BootstrapAdmin) (bool, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(admin.Username) == "" || admin.Password == "" {
		return false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", string(permissions.RoleAdmin)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("user service: probe admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	email := admin.Email
	if strings.TrimSpace(email) == "" {
		email = admin.Username + "@localhost"
	}

	if _, err := s.Create(ctx, CreateUserInput{
		Username: admin.Username,
		Email:    email,
		Password: admin.Password,
		Role:     string(permissions.RoleAdmin),
	}); err != nil {
		return false, err
	}
	return true, nil
}
