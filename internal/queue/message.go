package queue

import "encoding/json"

// Message notifies downstream review tooling that a verification completed.
type Message struct {
	ApplicationID string `json:"applicationId"`
	ApplicantID   string `json:"applicantId"`
	Severity      string `json:"severity"`
	EnqueuedAt    string `json:"enqueuedAt"`
	Version       int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
