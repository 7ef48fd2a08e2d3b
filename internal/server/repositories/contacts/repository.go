package contacts

import (
	"context"
	"time"

	"github.com/contactkeeper/contactkeeper/internal/server/models"
)

// Repository provides owner-scoped storage for contacts. Every operation
// takes the owning user's id and never returns rows belonging to another
// user.
type Repository interface {
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	GetAll(ctx context.Context, userID string, limit int, offset int) ([]*models.Contact, error)
	GetByID(ctx context.Context, userID string, contactID string) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, userID string, contactID string) error
	Search(ctx context.Context, userID string, query string) ([]*models.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID string, from time.Time, days int) ([]*models.Contact, error)
}
