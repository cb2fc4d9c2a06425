/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package file

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec serializes a full record collection to and from snapshot bytes.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec encodes snapshots as an indented JSON array of records, the
// interoperable default.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// YAMLCodec encodes snapshots as a YAML sequence of records.
type YAMLCodec struct{}

func (YAMLCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
