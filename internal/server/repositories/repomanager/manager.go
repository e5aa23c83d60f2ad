package repomanager

import (
	"context"
	"database/sql"

	"github.com/feedline/feedline/internal/dbx"
	"github.com/feedline/feedline/internal/server/repositories/followers"
	"github.com/feedline/feedline/internal/server/repositories/messages"
	"github.com/feedline/feedline/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Followers(db dbx.DBTX) followers.Repository
	Messages(db dbx.DBTX) messages.Repository
}
