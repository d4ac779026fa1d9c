package fraud

import (
	"strings"

	"vendor-backend/internal/extract"
)

// Severity is the coarse fraud classification for one evaluation.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Flag strings emitted by the rule set. Stable: downstream review tooling
// keys off them.
const (
	FlagTaxID1Missing           = "tax id 1 missing"
	FlagTaxID1Malformed         = "tax id 1 format invalid"
	FlagTaxID2Missing           = "tax id 2 missing"
	FlagTaxID2Malformed         = "tax id 2 format invalid"
	FlagTaxIDMismatch           = "tax id 2 does not embed tax id 1"
	FlagBusinessNameMissing     = "business name missing"
	FlagBusinessNamePlaceholder = "business name is a placeholder"
	FlagSuspiciousText          = "document text contains suspicious terms"
)

var placeholderNames = []string{"fake", "test", "demo", "sample"}

var suspiciousTerms = []string{"forged", "unauthorized", "invalid", "not valid", "fake"}

// Result is the outcome of scoring one merged payload.
type Result struct {
	Flags    []string
	Severity Severity
}

// Score evaluates the merged extracted payload against the fixed rule set.
// It is pure and total: any well-typed input produces a result, never an
// error. Each rule contributes at most one flag.
func Score(p extract.Payload) Result {
	var flags []string

	switch {
	case p.TaxID1 == "":
		flags = append(flags, FlagTaxID1Missing)
	case !extract.ValidTaxID1(p.TaxID1):
		flags = append(flags, FlagTaxID1Malformed)
	}

	switch {
	case p.TaxID2 == "":
		flags = append(flags, FlagTaxID2Missing)
	case !extract.ValidTaxID2(p.TaxID2):
		flags = append(flags, FlagTaxID2Malformed)
	}

	// taxId2 carries taxId1 at a fixed offset; a mismatch between the two
	// supplied identifiers is a strong signal of a doctored document.
	if p.TaxID1 != "" && p.TaxID2 != "" && len(p.TaxID2) >= 12 {
		if p.TaxID2[2:12] != p.TaxID1 {
			flags = append(flags, FlagTaxIDMismatch)
		}
	}

	switch {
	case strings.TrimSpace(p.BusinessName) == "":
		flags = append(flags, FlagBusinessNameMissing)
	case isPlaceholderName(p.BusinessName):
		flags = append(flags, FlagBusinessNamePlaceholder)
	}

	if containsSuspiciousTerm(p.RawText) {
		flags = append(flags, FlagSuspiciousText)
	}

	return Result{
		Flags:    flags,
		Severity: severityFor(len(flags)),
	}
}

func severityFor(flagCount int) Severity {
	switch {
	case flagCount == 0:
		return SeverityLow
	case flagCount <= 2:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

func isPlaceholderName(name string) bool {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, placeholder := range placeholderNames {
		if lowered == placeholder {
			return true
		}
	}
	return false
}

func containsSuspiciousTerm(text string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)
	for _, term := range suspiciousTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
