package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/sealbox/internal/common"
	"github.com/dmitrijs2005/sealbox/internal/logging"
	"github.com/dmitrijs2005/sealbox/internal/server/access"
	"github.com/dmitrijs2005/sealbox/internal/server/config"
	"github.com/dmitrijs2005/sealbox/internal/server/models"
	"github.com/dmitrijs2005/sealbox/internal/server/objectstore"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// RecipientResolver resolves a sharing recipient by email.
// *UserService satisfies it.
type RecipientResolver interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// FileService stores encrypted files, hands out download tickets and runs
// the sharing workflow. It never sees plaintext content or plaintext keys.
type FileService struct {
	repomanager repomanager.RepositoryManager
	store       objectstore.Store
	recipients  RecipientResolver
	downloadTTL time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewFileService(m repomanager.RepositoryManager, store objectstore.Store, recipients RecipientResolver,
	cfg *config.Config, logger logging.Logger) *FileService {
	return &FileService{
		repomanager: m,
		store:       store,
		recipients:  recipients,
		downloadTTL: cfg.DownloadURLTTL,
		logger:      logger.With("module", "files"),
		now:         time.Now,
	}
}

// NewStorageKey returns a fresh object key for a blob uploaded by ownerID at t.
// Keys are never reused, so stored content is never overwritten.
func NewStorageKey(ownerID string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("files/%s/%04d/%02d/%02d/%s", ownerID, t.Year(), t.Month(), t.Day(), uuid.New())
}

// Upload stores the ciphertext in body and then records the file. If the
// record cannot be created the stored blob is left behind unreferenced.
func (s *FileService) Upload(ctx context.Context, ownerID, filename, contentType string,
	wrappedKey models.WrappedKey, body io.Reader, size int64) (*models.File, error) {

	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", common.ErrorValidation)
	}
	if wrappedKey.IsEmpty() {
		return nil, fmt.Errorf("%w: wrapped key is required", common.ErrorValidation)
	}

	key := NewStorageKey(ownerID, s.now())
	if err := s.store.Put(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("%w: put object: %w", common.ErrorUpstream, err)
	}

	f := &models.File{
		Filename:        filename,
		OwnerID:         ownerID,
		StorageKey:      key,
		OwnerWrappedKey: wrappedKey,
		ContentType:     contentType,
		Size:            size,
	}
	if err := s.repomanager.Files().Create(ctx, f); err != nil {
		s.logger.Warn(ctx, "orphaned object after failed record create", "storage_key", key, "error", err)
		return nil, fmt.Errorf("error creating file record: %w", err)
	}

	s.logger.Info(ctx, "file uploaded", "file_id", f.ID, "owner_id", ownerID, "size", size)
	return f, nil
}

// Download evaluates access to fileID for callerID. When the outcome is
// access.Allowed it returns a ticket with a presigned URL and the caller's
// wrapped key; otherwise the ticket is nil. The error is reserved for
// storage and object-store failures.
func (s *FileService) Download(ctx context.Context, fileID, callerID string) (*access.Ticket, access.Outcome, error) {
	f, err := s.repomanager.Files().GetByID(ctx, fileID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, access.NotFound, fmt.Errorf("error loading file: %w", err)
	}

	result := access.Evaluate(f, callerID)
	key, ok := result.Grant()
	if !ok {
		s.logger.Info(ctx, "download refused", "file_id", fileID, "caller_id", callerID, "outcome", result.Outcome().String())
		return nil, result.Outcome(), nil
	}

	issued := s.now()
	url, err := s.store.PresignGet(ctx, f.StorageKey, s.downloadTTL)
	if err != nil {
		return nil, access.Allowed, fmt.Errorf("%w: presign: %w", common.ErrorUpstream, err)
	}

	return &access.Ticket{
		URL:        url,
		WrappedKey: key,
		Filename:   f.Filename,
		ExpiresAt:  issued.Add(s.downloadTTL),
	}, access.Allowed, nil
}

// Share grants recipientEmail access to fileID by appending a share entry
// carrying recipientKey, the file key wrapped by the owner's client for the
// recipient. Only the owner may share. The object store is not touched.
//
// Errors: common.ErrorNotFound (no such file), common.ErrorForbidden (caller
// is not the owner), common.ErrorRecipientNotFound, common.ErrorValidation.
func (s *FileService) Share(ctx context.Context, fileID, callerID, recipientEmail string, recipientKey models.WrappedKey) error {
	if recipientKey.IsEmpty() {
		return fmt.Errorf("%w: wrapped key is required", common.ErrorValidation)
	}
	if strings.TrimSpace(recipientEmail) == "" {
		return fmt.Errorf("%w: recipient email is required", common.ErrorValidation)
	}

	files := s.repomanager.Files()

	f, err := files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if !f.IsOwnedBy(callerID) {
		return common.ErrorForbidden
	}

	recipient, err := s.recipients.FindByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorRecipientNotFound
		}
		return fmt.Errorf("error resolving recipient: %w", err)
	}

	entry := models.ShareEntry{
		RecipientID: recipient.ID,
		WrappedKey:  recipientKey,
		CreatedAt:   s.now().UTC(),
	}
	if err := files.AppendShare(ctx, f.ID, entry); err != nil {
		return err
	}

	s.logger.Info(ctx, "file shared", "file_id", f.ID, "owner_id", callerID, "recipient_id", recipient.ID)
	return nil
}

// List returns every file owned by or shared with callerID, oldest first.
func (s *FileService) List(ctx context.Context, callerID string) ([]*models.File, error) {
	var out []*models.File
	for f, err := range s.repomanager.Files().ListOwnedOrShared(ctx, callerID) {
		if err != nil {
			return nil, fmt.Errorf("error listing files: %w", err)
		}
		out = append(out, f)
	}
	return out, nil
}
