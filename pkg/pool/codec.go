package pool

import (
	jsoniter "github.com/json-iterator/go"
)

// Codec copies task payloads across the isolated boundary.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// ConfigCompatibleWithStandardLibrary keeps floats exact, unlike ConfigFastest.
var jsonCodec Codec = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONCodec returns the default codec used by isolated pools.
func JSONCodec() Codec {
	return jsonCodec
}
