package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/flipkeeper/internal/dbx"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/epochs"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/flips"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/identities"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx so
// services can run several of them in one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Identities(db dbx.DBTX) identities.Repository
	Flips(db dbx.DBTX) flips.Repository
	Epochs(db dbx.DBTX) epochs.Repository
}
