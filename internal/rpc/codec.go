// Package rpc defines the Connect RPC surface: procedure names, wire
// message types, and handler/client constructors for each service.
//
// The wiring follows the layout protoc-gen-connect-go emits, but the
// messages are plain structs carried by a JSON codec, so no generated code
// is involved.
package rpc

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec marshals wire messages with encoding/json. Registering it under
// the name "json" makes Connect use it for application/json requests in
// place of the protobuf-backed default.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	return json.Unmarshal(data, message)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
}
