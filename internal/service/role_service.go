package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
)

type userLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// RoleService resolves the portal role of a signed-in account.
type RoleService struct {
	users  userLookup
	logger *zap.Logger
}

// NewRoleService constructs the role gate.
func NewRoleService(users userLookup, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{users: users, logger: logger}
}

// Resolve looks the user up by email and returns the account with its role.
// Accounts without a known role resolve to the empty role.
func (s *RoleService) Resolve(ctx context.Context, email string) (*models.User, models.UserRole, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	role := models.ParseUserRole(user.Role)
	if role == "" {
		s.logger.Info("account has no portal role", zap.String("user_id", user.ID), zap.String("role", user.Role))
	}
	return user, role, nil
}

// Redirect is the landing path for email; unknown accounts go to the login page.
func (s *RoleService) Redirect(ctx context.Context, email string) (string, error) {
	_, role, err := s.Resolve(ctx, email)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return models.UserRole("").LandingPath(), nil
		}
		return "", err
	}
	return role.LandingPath(), nil
}
