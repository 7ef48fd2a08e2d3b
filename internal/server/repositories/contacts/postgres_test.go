package contacts

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/contactkeeper/contactkeeper/internal/common"
	"github.com/contactkeeper/contactkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "first_name", "last_name",
		"email", "phone", "birthday", "notes", "created_at",
	})
}

func TestPostgresRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now()
	birthday := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO contacts")).
		WithArgs("u1", "John", "Doe", "john.doe@example.com", "+123456", birthday, "notes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("c1", now))

	contact, err := repo.Create(context.Background(), &models.Contact{
		UserID:    "u1",
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Phone:     "+123456",
		Birthday:  birthday,
		Notes:     "notes",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", contact.ID)
	assert.Equal(t, now, contact.CreatedAt)
}

func TestPostgresRepositoryGetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now()
	birthday := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM contacts")).
		WithArgs("u1", 10, 0).
		WillReturnRows(contactRows().
			AddRow("c1", "u1", "John", "Doe", "john.doe@example.com", "+123456", birthday, "", now).
			AddRow("c2", "u1", "Jane", "Roe", "jane.roe@example.com", "+654321", birthday, "", now))

	list, err := repo.GetAll(context.Background(), "u1", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c1", list[0].ID)
	assert.Equal(t, "Jane", list[1].FirstName)
}

func TestPostgresRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM contacts")).
		WithArgs("u1", "missing").
		WillReturnRows(contactRows())

	_, err = repo.GetByID(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresRepositoryUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now()
	birthday := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE contacts")).
		WithArgs("u1", "c1", "John", "Doe", "john.doe@example.com", "+123456", birthday, "updated").
		WillReturnRows(contactRows().
			AddRow("c1", "u1", "John", "Doe", "john.doe@example.com", "+123456", birthday, "updated", now))

	contact, err := repo.Update(context.Background(), &models.Contact{
		ID:        "c1",
		UserID:    "u1",
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Phone:     "+123456",
		Birthday:  birthday,
		Notes:     "updated",
	})
	require.NoError(t, err)
	assert.Equal(t, "updated", contact.Notes)
}

func TestPostgresRepositoryUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE contacts")).
		WillReturnRows(contactRows())

	_, err = repo.Update(context.Background(), &models.Contact{ID: "missing", UserID: "u1"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresRepositoryDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM contacts")).
		WithArgs("u1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "u1", "c1"))
}

func TestPostgresRepositoryDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM contacts")).
		WithArgs("u1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "missing"), common.ErrorNotFound)
}

func TestPostgresRepositorySearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now()
	birthday := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ILIKE")).
		WithArgs("u1", "%doe%").
		WillReturnRows(contactRows().
			AddRow("c1", "u1", "John", "Doe", "john.doe@example.com", "+123456", birthday, "", now))

	list, err := repo.Search(context.Background(), "u1", "doe")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Doe", list[0].LastName)
}

func TestPostgresRepositoryUpcomingBirthdays(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now()
	from := time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC)
	birthday := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("BETWEEN $2 AND $3")).
		WithArgs("u1", "05-18", "05-25").
		WillReturnRows(contactRows().
			AddRow("c1", "u1", "John", "Doe", "john.doe@example.com", "+123456", birthday, "", now))

	list, err := repo.UpcomingBirthdays(context.Background(), "u1", from, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryUpcomingBirthdaysYearWrap(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	from := time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(">= $2 OR")).
		WithArgs("u1", "12-29", "01-05").
		WillReturnRows(contactRows())

	list, err := repo.UpcomingBirthdays(context.Background(), "u1", from, 7)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
