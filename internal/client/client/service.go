package client

import (
	"context"

	"github.com/dmitrijs2005/sealbox/internal/api"
)

// Client is the remote API used by the CLI workflows.
type Client interface {
	Close() error
	Register(ctx context.Context, email, password, publicKey string) (string, error)
	Login(ctx context.Context, email, password string) error
	PublicKey(ctx context.Context, email string) (*api.PublicKeyResponse, error)
	WhoAmI(ctx context.Context) (*api.PublicKeyResponse, error)
	Upload(ctx context.Context, req *api.UploadRequest) (string, error)
	Download(ctx context.Context, fileID string) (*api.DownloadResponse, error)
	Share(ctx context.Context, fileID, recipientEmail, wrappedKey string) error
	ListFiles(ctx context.Context) ([]api.FileInfo, error)
	Ping(ctx context.Context) error
}

var _ Client = (*GRPCClient)(nil)
