package syntax

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CheckJSON validates src as JSON. Whitespace-only blocks are rejected
// (an empty fence declaring json is a documentation bug).
func CheckJSON(_ context.Context, src []byte) error {
	if len(bytes.TrimSpace(src)) == 0 {
		return fmt.Errorf("empty json block")
	}
	if !json.Valid(src) {
		// Decode again to surface the position of the failure.
		var v interface{}
		if err := json.Unmarshal(src, &v); err != nil {
			return fmt.Errorf("invalid json: %w", err)
		}
		return fmt.Errorf("invalid json")
	}
	return nil
}

// CheckYAML validates src as YAML.
func CheckYAML(_ context.Context, src []byte) error {
	var v interface{}
	if err := yaml.Unmarshal(src, &v); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}
