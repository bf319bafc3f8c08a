// Package repomanager wires repositories to database handles so services can
// bind the same repository to either *sql.DB or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/contactgain/contactgain/internal/dbx"
	"github.com/contactgain/contactgain/internal/server/repositories/contacts"
	"github.com/contactgain/contactgain/internal/server/repositories/counters"
	"github.com/contactgain/contactgain/internal/server/repositories/sessions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Sessions(db dbx.DBTX) sessions.Repository
	Contacts(db dbx.DBTX) contacts.Repository
	Counters(db dbx.DBTX) counters.Repository
}
