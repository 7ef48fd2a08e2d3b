package repomanager

import (
	"context"
	"database/sql"

	"github.com/contactkeeper/contactkeeper/internal/dbx"
	"github.com/contactkeeper/contactkeeper/internal/server/repositories/contacts"
	"github.com/contactkeeper/contactkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Contacts(db dbx.DBTX) contacts.Repository
}
