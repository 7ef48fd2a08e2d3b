// Package users provides the credential store: durable user records
// accessed by email.
package users

import (
	"context"

	"github.com/contactkeeper/contactkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateRefreshToken sets or clears (token == nil) the single active
	// refresh token for the user.
	UpdateRefreshToken(ctx context.Context, userID string, token *string) error

	// ConfirmEmail flips the confirmed flag. It is a no-op for already
	// confirmed users.
	ConfirmEmail(ctx context.Context, email string) error

	UpdateAvatar(ctx context.Context, email string, avatarURL string) (*models.User, error)
}
