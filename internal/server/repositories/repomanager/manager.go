// Package repomanager selects a storage backend and vends the repositories
// built on it.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/sealbox/internal/server/repositories/files"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/users"
)

// RepositoryManager owns the storage connection shared by all repositories.
type RepositoryManager interface {
	// RunMigrations brings the storage schema up to date. Backends without a
	// schema treat it as a no-op.
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Files() files.Repository
	RefreshTokens() refreshtokens.Repository
	Close() error
}
