// Package grpc exposes the sealbox services over gRPC: the Vault service
// from internal/api plus the standard health service.
package grpc

import (
	"context"
	"io"
	"net"

	"github.com/dmitrijs2005/sealbox/internal/api"
	"github.com/dmitrijs2005/sealbox/internal/logging"
	"github.com/dmitrijs2005/sealbox/internal/server/access"
	"github.com/dmitrijs2005/sealbox/internal/server/models"
	"github.com/dmitrijs2005/sealbox/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// UserService is the identity registry as used by the handlers.
type UserService interface {
	Register(ctx context.Context, email, password, publicKey string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// FileService is the file store and sharing workflow as used by the handlers.
type FileService interface {
	Upload(ctx context.Context, ownerID, filename, contentType string, wrappedKey models.WrappedKey, body io.Reader, size int64) (*models.File, error)
	Download(ctx context.Context, fileID, callerID string) (*access.Ticket, access.Outcome, error)
	Share(ctx context.Context, fileID, callerID, recipientEmail string, recipientKey models.WrappedKey) error
	List(ctx context.Context, callerID string) ([]*models.File, error)
}

// msgOverhead is headroom above MaxUploadBytes for the JSON envelope and
// base64 expansion of the content field.
const msgOverhead = 1 << 16

type GRPCServer struct {
	address        string
	users          UserService
	files          FileService
	logger         logging.Logger
	jwtSecret      []byte
	maxUploadBytes int64
	health         *health.Server
}

func NewGRPCServer(address string, l logging.Logger, us UserService, fs FileService, secretKey string, maxUploadBytes int64) *GRPCServer {
	return &GRPCServer{
		address:        address,
		logger:         l.With("module", "grpc_server"),
		users:          us,
		files:          fs,
		jwtSecret:      []byte(secretKey),
		maxUploadBytes: maxUploadBytes,
		health:         health.NewServer(),
	}
}

// maxRecvMsgSize is the largest request accepted: a base64-encoded upload of
// maxUploadBytes plus envelope.
func (s *GRPCServer) maxRecvMsgSize() int {
	return int(s.maxUploadBytes/3*4) + msgOverhead
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(s.maxRecvMsgSize()),
	)

	api.RegisterVaultServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
