package refreshtokens

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/sealbox/internal/common"
	"github.com/dmitrijs2005/sealbox/internal/server/models"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/kv"
)

const tokenPrefix = "refresh:"

type tokenRecord struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BadgerRepository implements Repository on an embedded badger database.
// Entries carry a badger TTL so expired tokens are dropped by compaction.
type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func (r *BadgerRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	return kv.Update(ctx, r.db, func(txn *badger.Txn) error {
		return setToken(txn, userID, token, validity)
	})
}

func setToken(txn *badger.Txn, userID, token string, validity time.Duration) error {
	rec := tokenRecord{UserID: userID, ExpiresAt: time.Now().Add(validity).UTC()}
	b, err := kv.Marshal(rec)
	if err != nil {
		return err
	}
	return txn.SetEntry(badger.NewEntry([]byte(tokenPrefix+token), b).WithTTL(validity))
}

func (r *BadgerRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rec tokenRecord
	if err := r.db.View(func(txn *badger.Txn) error {
		return kv.GetJSON(txn, []byte(tokenPrefix+token), &rec)
	}); err != nil {
		return nil, err
	}
	return &models.RefreshToken{UserID: rec.UserID, Token: token, Expires: rec.ExpiresAt}, nil
}

func (r *BadgerRepository) Rotate(ctx context.Context, oldToken, userID, newToken string, validity time.Duration) error {
	return kv.Update(ctx, r.db, func(txn *badger.Txn) error {
		var rec tokenRecord
		if err := kv.GetJSON(txn, []byte(tokenPrefix+oldToken), &rec); err != nil {
			return err
		}
		if rec.UserID != userID {
			return common.ErrorNotFound
		}
		if err := txn.Delete([]byte(tokenPrefix + oldToken)); err != nil {
			return err
		}
		return setToken(txn, userID, newToken, validity)
	})
}
