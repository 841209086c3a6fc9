// Package api is the wire contract of the sealbox.v1.Vault gRPC service:
// message types, the service descriptor and a typed client.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content-subtype, so the contract needs no code generation step.
package api

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype the Vault service is spoken in.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
