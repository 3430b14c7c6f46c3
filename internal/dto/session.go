package dto

import (
	"time"

	"github.com/noah-isme/campus-portal/internal/models"
)

// CreateSessionRequest exchanges an identity token for a portal session.
type CreateSessionRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// SessionView is what the portal needs to route a signed-in user.
type SessionView struct {
	UserID    string          `json:"userId"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	Redirect  string          `json:"redirect"`
	ExpiresAt time.Time       `json:"expiresAt"`
}
