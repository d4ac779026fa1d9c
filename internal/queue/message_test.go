package queue

import "testing"

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		ApplicationID: "app-1",
		ApplicantID:   "vendor-1",
		Severity:      "medium",
		EnqueuedAt:    "2024-01-02T03:04:05Z",
		Version:       1,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if got != msg {
		t.Fatalf("round trip mismatch: %+v != %+v", got, msg)
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
