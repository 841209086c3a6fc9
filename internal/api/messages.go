package api

import "time"

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	PublicKey string `json:"public_key"`
}

// TokenResponse is returned by every call that opens or renews a session.
type TokenResponse struct {
	UserID       string `json:"user_id,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// GetPublicKeyRequest looks a principal up by email or, if Email is empty,
// by UserID.
type GetPublicKeyRequest struct {
	Email  string `json:"email,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

type PublicKeyResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	PublicKey string `json:"public_key"`
}

type WhoAmIRequest struct{}

// UploadRequest carries the whole ciphertext. WrappedKey is the file key
// wrapped for the uploader.
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	WrappedKey  string `json:"wrapped_key"`
	Content     []byte `json:"content"`
}

type UploadResponse struct {
	FileID string `json:"file_id"`
}

type DownloadRequest struct {
	FileID string `json:"file_id"`
}

type DownloadResponse struct {
	DownloadURL string    `json:"download_url"`
	WrappedKey  string    `json:"wrapped_key"`
	Filename    string    `json:"filename"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ShareRequest grants RecipientEmail access to FileID. WrappedKey is the
// file key wrapped for the recipient's public key.
type ShareRequest struct {
	FileID         string `json:"file_id"`
	RecipientEmail string `json:"recipient_email"`
	WrappedKey     string `json:"wrapped_key"`
}

type ShareResponse struct {
	Message string `json:"message"`
}

type ListFilesRequest struct{}

type FileInfo struct {
	FileID      string    `json:"file_id"`
	Filename    string    `json:"filename"`
	OwnerID     string    `json:"owner_id"`
	Owned       bool      `json:"owned"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListFilesResponse struct {
	Files []FileInfo `json:"files"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
