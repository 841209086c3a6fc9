package repomanager

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/sealbox/internal/logging"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/files"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/kv"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/users"
)

// BadgerRepositoryManager vends repositories over an embedded badger store,
// for single-node deployments that do not run PostgreSQL.
type BadgerRepositoryManager struct {
	db *badger.DB
}

// OpenBadger opens the store in dir. An empty dir selects an in-memory store.
func OpenBadger(dir string, logger logging.Logger) (*BadgerRepositoryManager, error) {
	db, err := kv.Open(dir, dir == "", logging.NewBadgerLogger(logger))
	if err != nil {
		return nil, err
	}
	return &BadgerRepositoryManager{db: db}, nil
}

func (m *BadgerRepositoryManager) Users() users.Repository {
	return users.NewBadgerRepository(m.db)
}

func (m *BadgerRepositoryManager) Files() files.Repository {
	return files.NewBadgerRepository(m.db)
}

func (m *BadgerRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewBadgerRepository(m.db)
}

func (m *BadgerRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *BadgerRepositoryManager) Close() error {
	return m.db.Close()
}
