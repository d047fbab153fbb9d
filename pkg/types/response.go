package types

import (
	"bytes"
	"encoding/json"
)

// Envelope is the backend's response wrapper for mutating and most list
// endpoints: {"success":true,"data":...} on the happy path, a message on
// failure. A few list endpoints skip the wrapper and return the payload
// bare; DecodePayload normalizes both shapes at the transport boundary so
// unwrapping is not scattered across call sites.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// DecodePayload unmarshals a response body into dest, unwrapping the
// {success,data} envelope when present.
func DecodePayload(body []byte, dest any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '{' {
		var env struct {
			Success *bool           `json:"success"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Success != nil && len(env.Data) > 0 {
			return json.Unmarshal(env.Data, dest)
		}
	}
	return json.Unmarshal(trimmed, dest)
}

// ErrorMessage extracts the server-provided message from an error body,
// if there is one.
func ErrorMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}
