package localpdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"vendor-backend/internal/ocr"
	"vendor-backend/internal/shared/storage/object"
)

// Recognizer extracts text from stored PDF documents without a remote
// provider. It is the dev/offline default; non-PDF content yields an empty
// recognition rather than an error so scanned images simply skip enrichment.
type Recognizer struct {
	store object.ObjectStore
}

// New constructs a local PDF recognizer reading from the given store.
func New(store object.ObjectStore) *Recognizer {
	return &Recognizer{store: store}
}

// Recognize reads the stored object back and extracts its plain text.
func (r *Recognizer) Recognize(ctx context.Context, locator string) (ocr.Recognition, error) {
	body, err := r.store.Open(ctx, locator)
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("open stored document %s: %w", locator, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("read stored document %s: %w", locator, err)
	}

	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		return ocr.Recognition{}, nil
	}

	text, err := extractPDFText(raw)
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("extract pdf text %s: %w", locator, err)
	}
	return ocr.Recognition{Text: text}, nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

var _ ocr.Recognizer = (*Recognizer)(nil)
