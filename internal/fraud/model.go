package fraud

import "time"

// EntityTypeOCRResult tags flags raised against an OCR result.
const EntityTypeOCRResult = "ocr_result"

// Flag is one persisted fraud evaluation. Immutable once created.
type Flag struct {
	ID         string
	EntityType string
	EntityID   string
	Flags      []string
	Severity   Severity
	CreatedAt  time.Time
}
