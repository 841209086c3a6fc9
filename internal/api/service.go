package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "sealbox.v1.Vault"

// Full method names, as seen by interceptors.
const (
	MethodRegister     = "/" + ServiceName + "/Register"
	MethodLogin        = "/" + ServiceName + "/Login"
	MethodRefreshToken = "/" + ServiceName + "/RefreshToken"
	MethodGetPublicKey = "/" + ServiceName + "/GetPublicKey"
	MethodWhoAmI       = "/" + ServiceName + "/WhoAmI"
	MethodUpload       = "/" + ServiceName + "/Upload"
	MethodDownload     = "/" + ServiceName + "/Download"
	MethodShare        = "/" + ServiceName + "/Share"
	MethodListFiles    = "/" + ServiceName + "/ListFiles"
	MethodPing         = "/" + ServiceName + "/Ping"
)

// VaultServer is implemented by the server side of the service.
type VaultServer interface {
	Register(context.Context, *RegisterRequest) (*TokenResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error)
	GetPublicKey(context.Context, *GetPublicKeyRequest) (*PublicKeyResponse, error)
	WhoAmI(context.Context, *WhoAmIRequest) (*PublicKeyResponse, error)
	Upload(context.Context, *UploadRequest) (*UploadResponse, error)
	Download(context.Context, *DownloadRequest) (*DownloadResponse, error)
	Share(context.Context, *ShareRequest) (*ShareResponse, error)
	ListFiles(context.Context, *ListFilesRequest) (*ListFilesResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// RegisterVaultServer registers srv on s.
func RegisterVaultServer(s grpc.ServiceRegistrar, srv VaultServer) {
	s.RegisterService(&VaultServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(VaultServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VaultServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(VaultServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// VaultServiceDesc describes sealbox.v1.Vault for grpc.Server.
var VaultServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, VaultServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, VaultServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler(MethodRefreshToken, VaultServer.RefreshToken)},
		{MethodName: "GetPublicKey", Handler: unaryHandler(MethodGetPublicKey, VaultServer.GetPublicKey)},
		{MethodName: "WhoAmI", Handler: unaryHandler(MethodWhoAmI, VaultServer.WhoAmI)},
		{MethodName: "Upload", Handler: unaryHandler(MethodUpload, VaultServer.Upload)},
		{MethodName: "Download", Handler: unaryHandler(MethodDownload, VaultServer.Download)},
		{MethodName: "Share", Handler: unaryHandler(MethodShare, VaultServer.Share)},
		{MethodName: "ListFiles", Handler: unaryHandler(MethodListFiles, VaultServer.ListFiles)},
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, VaultServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sealbox/v1/vault",
}
