package files

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/dmitrijs2005/sealbox/internal/common"
	"github.com/dmitrijs2005/sealbox/internal/dbx"
	"github.com/dmitrijs2005/sealbox/internal/server/models"
)

const fileColumns = `id, owner_id, filename, storage_key, owner_wrapped_key, content_type, size, shares, created_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
// The share ledger lives in the shares JSONB column of the file row.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (owner_id, filename, storage_key, owner_wrapped_key, content_type, size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.OwnerID, file.Filename, file.StorageKey, string(file.OwnerWrappedKey), file.ContentType, file.Size).
		Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return common.ErrorConflict
		case dbx.IsForeignKeyViolation(err), dbx.IsInvalidInput(err):
			return fmt.Errorf("owner %w", common.ErrorNotFound)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// AppendShare concatenates the entry onto the JSONB array in a single
// statement, so concurrent appends serialize on the row lock and none is lost.
func (r *PostgresRepository) AppendShare(ctx context.Context, fileID string, share models.ShareEntry) error {
	entry, err := json.Marshal(share)
	if err != nil {
		return fmt.Errorf("encode share: %w", err)
	}

	query := `
		UPDATE files
		SET shares = shares || jsonb_build_array($2::jsonb)
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, fileID, string(entry))
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListOwnedOrShared(ctx context.Context, principalID string) iter.Seq2[*models.File, error] {
	query := `SELECT ` + fileColumns + ` FROM files
		WHERE owner_id = $1
		   OR shares @> jsonb_build_array(jsonb_build_object('recipient_id', $2::text))
		ORDER BY created_at, id
	`
	return func(yield func(*models.File, error) bool) {
		rows, err := r.db.QueryContext(ctx, query, principalID, principalID)
		if err != nil {
			// a principal id that is not a uuid cannot own anything
			if dbx.IsInvalidInput(err) {
				return
			}
			yield(nil, fmt.Errorf("db error: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			f, err := scanFile(rows)
			if err != nil {
				yield(nil, fmt.Errorf("scan error: %w", err))
				return
			}
			if !yield(f, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("rows error: %w", err))
		}
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.File, error) {
	var (
		f          models.File
		wrappedKey string
		shares     []byte
	)
	if err := s.Scan(&f.ID, &f.OwnerID, &f.Filename, &f.StorageKey, &wrappedKey,
		&f.ContentType, &f.Size, &shares, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.OwnerWrappedKey = models.WrappedKey(wrappedKey)
	if len(shares) > 0 {
		if err := json.Unmarshal(shares, &f.Shares); err != nil {
			return nil, fmt.Errorf("decode shares: %w", err)
		}
	}
	return &f, nil
}
