// Package client is the sealbox gRPC client.
//
// GRPCClient manages a connection to the Vault service, injects the access
// token into outgoing metadata, transparently refreshes an expired token
// once per call, and maps gRPC status codes to the sentinel errors in
// errors.go so callers can match them with errors.Is.
//
// Tokens rotated during a refresh are reported through the callback set
// with OnRefresh so the CLI can persist them.
package client
