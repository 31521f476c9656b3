package domain

import "encoding/json"

// SerializedConfig is the tagged wire form of a node's configuration. The
// type tag selects the registered converter; the payload is opaque to the
// core.
type SerializedConfig struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SerializedValue is the tagged wire form of a blackboard value.
type SerializedValue struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
