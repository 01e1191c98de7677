// Package jsoncodec provides a connect codec for plain Go structs.
//
// connect's built-in "json" codec only accepts proto messages. Registering
// Codec on both the handler and the client replaces it, so services can be
// declared with ordinary request and response structs.
package jsoncodec

import (
	"encoding/json"
	"fmt"
)

const Name = "json"

type Codec struct{}

func (Codec) Name() string { return Name }

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	// An empty body is a valid request with every field unset.
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
