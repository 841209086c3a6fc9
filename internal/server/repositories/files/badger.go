package files

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/sealbox/internal/server/models"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/kv"
	"github.com/google/uuid"
)

// Key layout:
//
//	file:<file id>                 -> fileRecord (JSON)
//	owner:<user id>:<file id>      -> empty, index of owned files
//	grant:<user id>:<file id>      -> empty, index of files shared with the user
const (
	filePrefix  = "file:"
	ownerPrefix = "owner:"
	grantPrefix = "grant:"
)

type fileRecord struct {
	ID              string              `json:"id"`
	OwnerID         string              `json:"owner_id"`
	Filename        string              `json:"filename"`
	StorageKey      string              `json:"storage_key"`
	OwnerWrappedKey models.WrappedKey   `json:"owner_wrapped_key"`
	ContentType     string              `json:"content_type"`
	Size            int64               `json:"size"`
	Shares          []models.ShareEntry `json:"shares"`
	CreatedAt       time.Time           `json:"created_at"`
}

// BadgerRepository implements Repository on an embedded badger database.
type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func fileKey(id string) []byte                 { return []byte(filePrefix + id) }
func ownerKey(userID, fileID string) []byte    { return []byte(ownerPrefix + userID + ":" + fileID) }
func grantKey(userID, fileID string) []byte    { return []byte(grantPrefix + userID + ":" + fileID) }
func indexPrefix(prefix, userID string) []byte { return []byte(prefix + userID + ":") }

func (r *BadgerRepository) Create(ctx context.Context, file *models.File) error {
	rec := fileRecord{
		ID:              uuid.NewString(),
		OwnerID:         file.OwnerID,
		Filename:        file.Filename,
		StorageKey:      file.StorageKey,
		OwnerWrappedKey: file.OwnerWrappedKey,
		ContentType:     file.ContentType,
		Size:            file.Size,
		Shares:          file.Shares,
		CreatedAt:       time.Now().UTC(),
	}

	err := kv.Update(ctx, r.db, func(txn *badger.Txn) error {
		if err := kv.SetJSON(txn, fileKey(rec.ID), rec); err != nil {
			return err
		}
		return txn.Set(ownerKey(rec.OwnerID, rec.ID), nil)
	})
	if err != nil {
		return err
	}

	file.ID = rec.ID
	file.CreatedAt = rec.CreatedAt
	return nil
}

func (r *BadgerRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	var rec fileRecord
	if err := r.db.View(func(txn *badger.Txn) error {
		return kv.GetJSON(txn, fileKey(id), &rec)
	}); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// AppendShare reads, extends and rewrites the record in one transaction.
// A concurrent append to the same file makes one commit fail with
// ErrConflict, and kv.Update re-runs it on the newer ledger.
func (r *BadgerRepository) AppendShare(ctx context.Context, fileID string, share models.ShareEntry) error {
	return kv.Update(ctx, r.db, func(txn *badger.Txn) error {
		var rec fileRecord
		if err := kv.GetJSON(txn, fileKey(fileID), &rec); err != nil {
			return err
		}
		rec.Shares = append(rec.Shares, share)
		if err := kv.SetJSON(txn, fileKey(fileID), rec); err != nil {
			return err
		}
		return txn.Set(grantKey(share.RecipientID, fileID), nil)
	})
}

func (r *BadgerRepository) ListOwnedOrShared(ctx context.Context, principalID string) iter.Seq2[*models.File, error] {
	return func(yield func(*models.File, error) bool) {
		var recs []fileRecord
		err := r.db.View(func(txn *badger.Txn) error {
			ids := kv.KeySuffixes(txn, indexPrefix(ownerPrefix, principalID))
			ids = append(ids, kv.KeySuffixes(txn, indexPrefix(grantPrefix, principalID))...)
			slices.Sort(ids)
			ids = slices.Compact(ids)

			recs = make([]fileRecord, 0, len(ids))
			for _, id := range ids {
				if err := ctx.Err(); err != nil {
					return err
				}
				var rec fileRecord
				if err := kv.GetJSON(txn, fileKey(id), &rec); err != nil {
					return err
				}
				recs = append(recs, rec)
			}
			return nil
		})
		if err != nil {
			yield(nil, err)
			return
		}

		slices.SortFunc(recs, func(a, b fileRecord) int {
			return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
		})
		for _, rec := range recs {
			if !yield(rec.toModel(), nil) {
				return
			}
		}
	}
}

func (rec fileRecord) toModel() *models.File {
	return &models.File{
		ID:              rec.ID,
		OwnerID:         rec.OwnerID,
		Filename:        rec.Filename,
		StorageKey:      rec.StorageKey,
		OwnerWrappedKey: rec.OwnerWrappedKey,
		ContentType:     rec.ContentType,
		Size:            rec.Size,
		Shares:          rec.Shares,
		CreatedAt:       rec.CreatedAt,
	}
}
