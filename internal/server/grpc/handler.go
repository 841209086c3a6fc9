package grpc

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dmitrijs2005/sealbox/internal/api"
	"github.com/dmitrijs2005/sealbox/internal/server/access"
	"github.com/dmitrijs2005/sealbox/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.TokenResponse, error) {
	s.logger.Info(ctx, "Registration request")

	user, tokens, err := s.users.Register(ctx, req.Email, req.Password, req.PublicKey)
	if err != nil {
		return nil, s.toStatus(ctx, api.MethodRegister, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &api.TokenResponse{UserID: user.ID, AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {
	tokens, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, api.MethodLogin, err)
	}
	return &api.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.TokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, api.MethodRefreshToken, err)
	}
	return &api.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) GetPublicKey(ctx context.Context, req *api.GetPublicKeyRequest) (*api.PublicKeyResponse, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case req.Email != "":
		user, err = s.users.FindByEmail(ctx, req.Email)
	case req.UserID != "":
		user, err = s.users.FindByID(ctx, req.UserID)
	default:
		return nil, status.Error(codes.InvalidArgument, "email or user_id is required")
	}
	if err != nil {
		return nil, s.toStatus(ctx, api.MethodGetPublicKey, err)
	}
	return publicKeyResponse(user), nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *api.WhoAmIRequest) (*api.PublicKeyResponse, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, api.MethodWhoAmI, err)
	}
	return publicKeyResponse(user), nil
}

func publicKeyResponse(u *models.User) *api.PublicKeyResponse {
	return &api.PublicKeyResponse{UserID: u.ID, Email: u.Email, PublicKey: u.PublicKey}
}

func (s *GRPCServer) Upload(ctx context.Context, req *api.UploadRequest) (*api.UploadResponse, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if int64(len(req.Content)) > s.maxUploadBytes {
		return nil, status.Error(codes.ResourceExhausted, fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes))
	}

	f, err := s.files.Upload(ctx, uid, req.Filename, req.ContentType, models.WrappedKey(req.WrappedKey),
		bytes.NewReader(req.Content), int64(len(req.Content)))
	if err != nil {
		return nil, s.toStatus(ctx, api.MethodUpload, err)
	}
	return &api.UploadResponse{FileID: f.ID}, nil
}

func (s *GRPCServer) Download(ctx context.Context, req *api.DownloadRequest) (*api.DownloadResponse, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	ticket, outcome, err := s.files.Download(ctx, req.FileID, uid)
	if err != nil {
		return nil, s.toStatus(ctx, api.MethodDownload, err)
	}
	if outcome != access.Allowed {
		return nil, s.downloadDenied(ctx, req.FileID, outcome)
	}

	return &api.DownloadResponse{
		DownloadURL: ticket.URL,
		WrappedKey:  string(ticket.WrappedKey),
		Filename:    ticket.Filename,
		ExpiresAt:   ticket.ExpiresAt,
	}, nil
}

func (s *GRPCServer) Share(ctx context.Context, req *api.ShareRequest) (*api.ShareResponse, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.files.Share(ctx, req.FileID, uid, req.RecipientEmail, models.WrappedKey(req.WrappedKey)); err != nil {
		return nil, s.toStatus(ctx, api.MethodShare, err)
	}
	return &api.ShareResponse{Message: "file shared"}, nil
}

func (s *GRPCServer) ListFiles(ctx context.Context, _ *api.ListFilesRequest) (*api.ListFilesResponse, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.files.List(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, api.MethodListFiles, err)
	}

	resp := &api.ListFilesResponse{Files: make([]api.FileInfo, 0, len(list))}
	for _, f := range list {
		resp.Files = append(resp.Files, api.FileInfo{
			FileID:      f.ID,
			Filename:    f.Filename,
			OwnerID:     f.OwnerID,
			Owned:       f.IsOwnedBy(uid),
			ContentType: f.ContentType,
			Size:        f.Size,
			CreatedAt:   f.CreatedAt,
		})
	}
	return resp, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}
