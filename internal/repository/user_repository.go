package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
)

// UserRepository looks up backend user accounts.
type UserRepository struct {
	client BackendClient
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(client BackendClient) *UserRepository {
	return &UserRepository{client: client}
}

// FindByEmail returns the user registered under email. The backend may
// ignore the filter, so matches are checked locally.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	var users []models.User
	if err := r.client.Get(ctx, models.EntityUsers.BackendPath(), url.Values{"email": {email}}, &users); err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}
