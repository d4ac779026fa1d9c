package extract

import (
	"regexp"
	"strings"
)

// Payload is the structured result pulled out of recognized text.
type Payload struct {
	BusinessName string
	TaxID1       string
	TaxID2       string
	RawText      string
}

var (
	// taxId1: 5 letters, 4 digits, 1 letter. Upper-case only; OCR output that
	// lower-cases an identifier is treated as unrecognized.
	taxID1Pattern = regexp.MustCompile(`[A-Z]{5}[0-9]{4}[A-Z]`)
	taxID1Exact   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

	// taxId2: 2 digits, 5 letters, 4 digits, 1 letter, 1 alphanumeric, literal
	// Z, 1 alphanumeric. Embeds taxId1 at offset 2.
	taxID2Pattern = regexp.MustCompile(`[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][A-Z0-9]Z[A-Z0-9]`)
	taxID2Exact   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][A-Z0-9]Z[A-Z0-9]$`)

	whitespace = regexp.MustCompile(`\s+`)

	// Lines that are nothing but digits and date/number punctuation.
	numericLine = regexp.MustCompile(`^[\d\s/\-]+$`)
)

// Document-label words that are never a business name.
var labelWords = map[string]struct{}{
	"PAN":        {},
	"GST":        {},
	"GSTIN":      {},
	"INCOME TAX": {},
	"TAX":        {},
	"FORM":       {},
	"DATE":       {},
}

// ValidTaxID1 reports whether s is a structurally valid taxId1.
func ValidTaxID1(s string) bool {
	return taxID1Exact.MatchString(s)
}

// ValidTaxID2 reports whether s is a structurally valid taxId2.
func ValidTaxID2(s string) bool {
	return taxID2Exact.MatchString(s)
}

// Fields parses one document's recognized text into a Payload. All fields may
// be empty; noisy multi-line OCR output is expected.
func Fields(text string) Payload {
	p := Payload{RawText: text}
	if strings.TrimSpace(text) == "" {
		return p
	}

	p.TaxID1 = taxID1Pattern.FindString(text)

	// taxId2 may be wrapped across lines by the OCR engine, so match against
	// the text as-is and with all whitespace stripped.
	p.TaxID2 = taxID2Pattern.FindString(text)
	if p.TaxID2 == "" {
		p.TaxID2 = taxID2Pattern.FindString(whitespace.ReplaceAllString(text, ""))
	}

	p.BusinessName = guessBusinessName(text, p.TaxID1, p.TaxID2)
	return p
}

// guessBusinessName picks the first plausible line of the document.
func guessBusinessName(text, taxID1, taxID2 string) string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	for _, line := range lines {
		if taxID1 != "" && strings.Contains(line, taxID1) {
			continue
		}
		if taxID2 != "" && strings.Contains(line, taxID2) {
			continue
		}
		if numericLine.MatchString(line) {
			continue
		}
		if len(line) < 3 {
			continue
		}
		if _, ok := labelWords[strings.ToUpper(line)]; ok {
			continue
		}
		return line
	}

	// Every line was filtered; fall back to the document's first line.
	return lines[0]
}

// Merge folds per-document payloads into a batch payload: first non-empty
// value wins per field, raw texts are concatenated in submission order.
func Merge(payloads ...Payload) Payload {
	var merged Payload
	var texts []string
	for _, p := range payloads {
		if merged.BusinessName == "" {
			merged.BusinessName = p.BusinessName
		}
		if merged.TaxID1 == "" {
			merged.TaxID1 = p.TaxID1
		}
		if merged.TaxID2 == "" {
			merged.TaxID2 = p.TaxID2
		}
		if p.RawText != "" {
			texts = append(texts, p.RawText)
		}
	}
	merged.RawText = strings.Join(texts, "\n")
	return merged
}
