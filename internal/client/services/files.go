package services

import (
	"context"
	"fmt"

	"filippo.io/age"
	"github.com/dmitrijs2005/sealbox/internal/api"
	"github.com/dmitrijs2005/sealbox/internal/client/client"
	"github.com/dmitrijs2005/sealbox/internal/common"
	"github.com/dmitrijs2005/sealbox/internal/cryptox"
	"github.com/dmitrijs2005/sealbox/internal/netx"
)

// fetchObject is a test seam for netx.DownloadFromPresignedURL.
var fetchObject = netx.DownloadFromPresignedURL

// FileService runs the client half of envelope sharing. Content is
// encrypted locally under a fresh file key; only the ciphertext and wrapped
// copies of the key leave the machine.
type FileService struct {
	client   client.Client
	maxBytes int64
}

func NewFileService(c client.Client, maxBytes int64) *FileService {
	return &FileService{client: c, maxBytes: maxBytes}
}

// Upload encrypts plaintext, wraps the file key for the caller's own public
// key and stores both. It returns the new file id.
func (s *FileService) Upload(ctx context.Context, filename, contentType string, plaintext []byte) (string, error) {
	me, err := s.client.WhoAmI(ctx)
	if err != nil {
		return "", fmt.Errorf("loading own public key: %w", err)
	}

	key := cryptox.NewFileKey()
	defer common.WipeByteArray(key)

	blob, err := cryptox.EncryptFile(plaintext, key)
	if err != nil {
		return "", fmt.Errorf("encrypting file: %w", err)
	}

	wrapped, err := cryptox.WrapKey(key, me.PublicKey)
	if err != nil {
		return "", err
	}

	return s.client.Upload(ctx, &api.UploadRequest{
		Filename:    filename,
		ContentType: contentType,
		WrappedKey:  wrapped,
		Content:     blob,
	})
}

// Download fetches a file the caller may read and decrypts it with identity.
func (s *FileService) Download(ctx context.Context, fileID string, identity age.Identity) (string, []byte, error) {
	ticket, err := s.client.Download(ctx, fileID)
	if err != nil {
		return "", nil, err
	}

	key, err := cryptox.UnwrapKey(ticket.WrappedKey, identity)
	if err != nil {
		return "", nil, err
	}
	defer common.WipeByteArray(key)

	blob, err := fetchObject(ctx, ticket.DownloadURL, s.maxBytes)
	if err != nil {
		return "", nil, fmt.Errorf("fetching object: %w", err)
	}

	plaintext, err := cryptox.DecryptFile(blob, key)
	if err != nil {
		return "", nil, fmt.Errorf("decrypting file: %w", err)
	}

	return ticket.Filename, plaintext, nil
}

// Share grants recipientEmail access to fileID. The caller's wrapped key is
// unwrapped with identity and wrapped again for the recipient's public key;
// the file body is not touched.
func (s *FileService) Share(ctx context.Context, fileID, recipientEmail string, identity age.Identity) error {
	recipient, err := s.client.PublicKey(ctx, recipientEmail)
	if err != nil {
		return fmt.Errorf("looking up recipient: %w", err)
	}

	ticket, err := s.client.Download(ctx, fileID)
	if err != nil {
		return err
	}

	wrapped, err := cryptox.RewrapKey(ticket.WrappedKey, identity, recipient.PublicKey)
	if err != nil {
		return err
	}

	return s.client.Share(ctx, fileID, recipient.Email, wrapped)
}

// List returns the files the caller owns or has been granted.
func (s *FileService) List(ctx context.Context) ([]api.FileInfo, error) {
	return s.client.ListFiles(ctx)
}
