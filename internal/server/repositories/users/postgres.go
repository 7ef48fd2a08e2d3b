package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/contactkeeper/contactkeeper/internal/common"
	"github.com/contactkeeper/contactkeeper/internal/dbx"
	"github.com/contactkeeper/contactkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user. Confirmed defaults to false and the refresh
// token to NULL in the schema. A duplicate email maps to
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, password, avatar)
		VALUES ($1, $2, $3)
		RETURNING id, confirmed, created_at
	`
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Password, user.Avatar).
		Scan(&user.ID, &user.Confirmed, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetByEmail returns the user stored under email (case-sensitive match),
// or common.ErrorNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password, confirmed, refresh_token, avatar, created_at
		FROM users
		WHERE email = $1
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.Confirmed,
		&user.RefreshToken, &user.Avatar, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// UpdateRefreshToken stores token as the user's single active refresh
// token; nil clears it.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, userID string, token *string) error {
	query := `
		UPDATE users SET refresh_token = $2
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ConfirmEmail marks the user confirmed.
func (r *PostgresRepository) ConfirmEmail(ctx context.Context, email string) error {
	query := `
		UPDATE users SET confirmed = TRUE
		WHERE email = $1
	`
	res, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// UpdateAvatar sets the avatar URL and returns the updated record.
func (r *PostgresRepository) UpdateAvatar(ctx context.Context, email string, avatarURL string) (*models.User, error) {
	query := `
		UPDATE users SET avatar = $2
		WHERE email = $1
		RETURNING id, email, password, confirmed, refresh_token, avatar, created_at
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email, avatarURL).Scan(
		&user.ID, &user.Email, &user.Password, &user.Confirmed,
		&user.RefreshToken, &user.Avatar, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
