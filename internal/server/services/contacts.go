package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/contactkeeper/contactkeeper/internal/server/models"
	"github.com/contactkeeper/contactkeeper/internal/server/repositories/repomanager"
)

const (
	defaultContactsLimit = 100
	maxContactsLimit     = 500
)

// ContactService implements owner-scoped contact management on top of the
// contacts repository.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager) *ContactService {
	return &ContactService{db: db, repomanager: m}
}

// nowFunc is a seam for testing the birthday window.
var nowFunc = time.Now

func (s *ContactService) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	repo := s.repomanager.Contacts(s.db)

	contact, err := repo.Create(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("error creating contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) GetAll(ctx context.Context, userID string, limit int, offset int) ([]*models.Contact, error) {
	if limit <= 0 {
		limit = defaultContactsLimit
	}
	if limit > maxContactsLimit {
		limit = maxContactsLimit
	}
	if offset < 0 {
		offset = 0
	}

	repo := s.repomanager.Contacts(s.db)
	return repo.GetAll(ctx, userID, limit, offset)
}

func (s *ContactService) GetByID(ctx context.Context, userID string, contactID string) (*models.Contact, error) {
	repo := s.repomanager.Contacts(s.db)
	return repo.GetByID(ctx, userID, contactID)
}

func (s *ContactService) Update(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	repo := s.repomanager.Contacts(s.db)
	return repo.Update(ctx, contact)
}

func (s *ContactService) Delete(ctx context.Context, userID string, contactID string) error {
	repo := s.repomanager.Contacts(s.db)
	return repo.Delete(ctx, userID, contactID)
}

func (s *ContactService) Search(ctx context.Context, userID string, query string) ([]*models.Contact, error) {
	repo := s.repomanager.Contacts(s.db)
	return repo.Search(ctx, userID, query)
}

// UpcomingBirthdays lists contacts whose birthday falls within the next
// seven days, birth year ignored.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID string) ([]*models.Contact, error) {
	repo := s.repomanager.Contacts(s.db)
	return repo.UpcomingBirthdays(ctx, userID, nowFunc(), 7)
}
