// Package common contains shared constants and sentinel errors used across
// sealbox components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// FileKeySize is the length in bytes of a per-file symmetric key.
const FileKeySize = 32
