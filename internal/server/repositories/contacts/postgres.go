package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/contactkeeper/contactkeeper/internal/common"
	"github.com/contactkeeper/contactkeeper/internal/dbx"
	"github.com/contactkeeper/contactkeeper/internal/server/models"
)

const contactColumns = "id, user_id, first_name, last_name, email, phone, birthday, notes, created_at"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanContact(row interface{ Scan(dest ...any) error }) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(
		&c.ID, &c.UserID, &c.FirstName, &c.LastName,
		&c.Email, &c.Phone, &c.Birthday, &c.Notes, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func collectContacts(rows *sql.Rows) ([]*models.Contact, error) {
	defer rows.Close()

	result := []*models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (user_id, first_name, last_name, email, phone, birthday, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		contact.UserID, contact.FirstName, contact.LastName,
		contact.Email, contact.Phone, contact.Birthday, contact.Notes,
	).Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return contact, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context, userID string, limit int, offset int) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return collectContacts(rows)
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string, contactID string) (*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1 AND id = $2
	`
	c, err := scanContact(r.db.QueryRowContext(ctx, query, userID, contactID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone = $6, birthday = $7, notes = $8
		WHERE user_id = $1 AND id = $2
		RETURNING ` + contactColumns + `
	`
	c, err := scanContact(r.db.QueryRowContext(ctx, query,
		contact.UserID, contact.ID, contact.FirstName, contact.LastName,
		contact.Email, contact.Phone, contact.Birthday, contact.Notes,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, contactID string) error {
	query := `
		DELETE FROM contacts
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, contactID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Search matches query case-insensitively against first name, last name
// and email.
func (r *PostgresRepository) Search(ctx context.Context, userID string, query string) ([]*models.Contact, error) {
	stmt := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, stmt, userID, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return collectContacts(rows)
}

// UpcomingBirthdays returns contacts whose birthday (month and day, the
// birth year is ignored) falls within days calendar days starting at
// from. The window may wrap over the year end, in which case it is split
// in two.
func (r *PostgresRepository) UpcomingBirthdays(ctx context.Context, userID string, from time.Time, days int) ([]*models.Contact, error) {
	lo := from.Format("01-02")
	hi := from.AddDate(0, 0, days).Format("01-02")

	cond := "to_char(birthday, 'MM-DD') BETWEEN $2 AND $3"
	if lo > hi {
		cond = "(to_char(birthday, 'MM-DD') >= $2 OR to_char(birthday, 'MM-DD') <= $3)"
	}

	stmt := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1 AND ` + cond + `
		ORDER BY to_char(birthday, 'MM-DD')
	`
	rows, err := r.db.QueryContext(ctx, stmt, userID, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return collectContacts(rows)
}
