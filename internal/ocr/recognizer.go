package ocr

import "context"

// Recognition is the response shape of a text-detection provider. All fields
// are optional; providers that only detect raw text leave the structured
// fields empty.
type Recognition struct {
	Text         string
	BusinessName string
	TaxID1       string
	TaxID2       string
}

// Recognizer is the capability interface for an external text-detection
// service. Implementations receive a storage locator for a document already
// persisted by the object store.
type Recognizer interface {
	Recognize(ctx context.Context, locator string) (Recognition, error)
}
