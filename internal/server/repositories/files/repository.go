// Package files is the file record store: file metadata plus the nested,
// append-only share ledger of each file.
package files

import (
	"context"
	"iter"

	"github.com/dmitrijs2005/sealbox/internal/server/models"
)

// Repository persists file records.
//
// A record is created only after its ciphertext is durably stored. Apart from
// AppendShare, records are never modified after Create.
type Repository interface {
	// Create inserts file and fills in its ID and CreatedAt.
	Create(ctx context.Context, file *models.File) error

	// GetByID returns common.ErrorNotFound for unknown or malformed ids.
	GetByID(ctx context.Context, id string) (*models.File, error)

	// AppendShare atomically appends share to the file's ledger. Concurrent
	// appends to the same file are all preserved. Returns common.ErrorNotFound
	// when the file does not exist.
	AppendShare(ctx context.Context, fileID string, share models.ShareEntry) error

	// ListOwnedOrShared yields every file owned by or shared with principalID,
	// oldest first. The sequence is single-pass; iteration stops at the first
	// error.
	ListOwnedOrShared(ctx context.Context, principalID string) iter.Seq2[*models.File, error]
}
