package users

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/sealbox/internal/common"
	"github.com/dmitrijs2005/sealbox/internal/server/models"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/kv"
	"github.com/google/uuid"
)

const (
	userPrefix  = "user:id:"
	emailPrefix = "user:email:"
)

type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	PublicKey    string    `json:"public_key"`
	CreatedAt    time.Time `json:"created_at"`
}

// BadgerRepository implements Repository on an embedded badger database.
// Each user is stored under its id with a secondary email -> id key that
// enforces email uniqueness.
type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func (r *BadgerRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	rec := userRecord{
		ID:           uuid.NewString(),
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		PublicKey:    user.PublicKey,
		CreatedAt:    time.Now().UTC(),
	}

	err := kv.Update(ctx, r.db, func(txn *badger.Txn) error {
		taken, err := kv.Exists(txn, []byte(emailPrefix+rec.Email))
		if err != nil {
			return err
		}
		if taken {
			return common.ErrorConflict
		}
		if err := txn.Set([]byte(emailPrefix+rec.Email), []byte(rec.ID)); err != nil {
			return err
		}
		return kv.SetJSON(txn, []byte(userPrefix+rec.ID), rec)
	})
	if err != nil {
		return nil, err
	}

	user.ID = rec.ID
	user.CreatedAt = rec.CreatedAt
	return user, nil
}

func (r *BadgerRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailPrefix + email))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return common.ErrorNotFound
			}
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return kv.GetJSON(txn, []byte(userPrefix+string(id)), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *BadgerRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return kv.GetJSON(txn, []byte(userPrefix+id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (rec userRecord) toModel() *models.User {
	return &models.User{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		PublicKey:    rec.PublicKey,
		CreatedAt:    rec.CreatedAt,
	}
}
