package types

import "testing"

func TestDecodePayloadEnvelope(t *testing.T) {
	body := []byte(`{"success":true,"data":[{"_id":"a"},{"_id":"b"}]}`)
	var out []map[string]string
	if err := DecodePayload(body, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0]["_id"] != "a" {
		t.Fatalf("unexpected payload %v", out)
	}
}

func TestDecodePayloadBareArray(t *testing.T) {
	body := []byte(`[{"_id":"a"}]`)
	var out []map[string]string
	if err := DecodePayload(body, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("unexpected payload %v", out)
	}
}

func TestDecodePayloadBareObject(t *testing.T) {
	// An object without the success discriminator is a bare payload.
	body := []byte(`{"_id":"a","name":"Widget"}`)
	var out map[string]string
	if err := DecodePayload(body, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["name"] != "Widget" {
		t.Fatalf("unexpected payload %v", out)
	}
}

func TestErrorMessage(t *testing.T) {
	if msg := ErrorMessage([]byte(`{"success":false,"message":"sku taken"}`)); msg != "sku taken" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := ErrorMessage([]byte(`{"error":"bad input"}`)); msg != "bad input" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := ErrorMessage([]byte(`not json`)); msg != "" {
		t.Fatalf("expected empty message, got %q", msg)
	}
}
