// Package apiconnect wires the splitpay.v1 services onto Connect handlers and
// clients. Messages are plain Go structs, so every handler and client is
// built with a JSON codec instead of the default protobuf ones.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName replaces Connect's default protojson codec.
const codecName = "json"

type jsonCodec struct{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// WithJSON is the codec option every splitpay handler and client uses.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{WithJSON()}, opts...)
}
