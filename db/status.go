/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"regexp"
	"strconv"
	"strings"
)

// HealthStatus classifies a lab result against its reference range.
// It is a display aid, not a diagnosis.
type HealthStatus string

const (
	StatusSuccess HealthStatus = "success"
	StatusWarning HealthStatus = "warning"
	StatusDanger  HealthStatus = "danger"
	StatusNeutral HealthStatus = "neutral"
	StatusInfo    HealthStatus = "info"
)

// Label returns the user-facing (pt-BR) label for the status
func (s HealthStatus) Label() string {
	switch s {
	case StatusSuccess:
		return "Normal"
	case StatusWarning:
		return "Atenção"
	case StatusDanger:
		return "Crítico"
	case StatusInfo:
		return "Informativo"
	default:
		return "Indefinido"
	}
}

// CSSClass returns the badge class used by the templates
func (s HealthStatus) CSSClass() string {
	switch s {
	case StatusSuccess:
		return "badge-success"
	case StatusWarning:
		return "badge-warning"
	case StatusDanger:
		return "badge-danger"
	case StatusInfo:
		return "badge-info"
	default:
		return "badge-neutral"
	}
}

// Tolerance margins applied outside the parsed bounds before a value is
// considered critical rather than borderline. Fixed policy, not
// configurable per exam type.
const (
	intervalMarginFraction  = 0.2
	lowerBoundWarningFactor = 0.8
	upperBoundWarningFactor = 1.2
)

var (
	// "70 - 99", "70 a 99", "70 até 99", "70 — 99"
	intervalPattern = regexp.MustCompile(`([\d.]+)\s*(?:-|a|até|—)\s*([\d.]+)`)
	// "> 40", "acima de 40", "superior a 40"
	lowerBoundPattern = regexp.MustCompile(`(?:>|acima de|superior a)\s*([\d.]+)`)
	// "< 200", "abaixo de 200", "inferior a 200", "até 200"
	upperBoundPattern = regexp.MustCompile(`(?:<|abaixo de|inferior a|até)\s*([\d.]+)`)
	// Leading numeric prefix of a result string ("125 mg/dL" reads as 125)
	leadingNumberPattern = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)`)
)

// Result phrases matched by substring. The healthy set MUST be checked
// before the unhealthy set: "não reagente" contains "reagente" and would
// otherwise classify as critical.
var (
	healthyPhrases      = []string{"não reagente", "negativo", "ausente", "normal", "não detectado"}
	unhealthyPhrases    = []string{"reagente", "positivo", "presente", "alterado", "detectado"}
	inconclusivePhrases = []string{"indeterminado", "repetir", "aguardar"}
)

// Classify evaluates a result value against a free-text reference range.
// It is total: any unparseable input resolves to StatusNeutral (or
// StatusInfo for inconclusive phrases), never an error.
func Classify(value, referenceRange string) HealthStatus {
	rangeText := strings.TrimSpace(referenceRange)
	if rangeText == "" || strings.EqualFold(rangeText, "N/A") {
		return StatusNeutral
	}

	// Decimal commas become dots before any numeric parsing
	cleanValue := strings.ReplaceAll(value, ",", ".")
	rangeText = strings.ToLower(strings.ReplaceAll(rangeText, ",", "."))

	if num, ok := parseLeadingNumber(cleanValue); ok {
		return classifyNumeric(num, rangeText)
	}

	return classifyTextual(value)
}

// parseLeadingNumber extracts a leading decimal number from the value,
// ignoring trailing units ("5.2 mi/mm³" parses as 5.2).
func parseLeadingNumber(value string) (float64, bool) {
	prefix := leadingNumberPattern.FindString(strings.TrimSpace(value))
	if prefix == "" {
		return 0, false
	}

	num, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}

	return num, true
}

// NumericValue extracts the leading number from a free-text result,
// applying the same decimal-comma normalization as Classify. Reports
// false for purely textual results.
func NumericValue(value string) (float64, bool) {
	return parseLeadingNumber(strings.ReplaceAll(value, ",", "."))
}

// ReferenceBounds extracts the numeric bounds of a free-text reference
// range. Either bound may be nil when the range only specifies the other
// direction, and both are nil for textual or empty ranges.
func ReferenceBounds(referenceRange string) (min, max *float64) {
	rangeText := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(referenceRange), ",", "."))
	if rangeText == "" || rangeText == "n/a" {
		return nil, nil
	}

	if m := intervalPattern.FindStringSubmatch(rangeText); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo == nil && errHi == nil {
			return &lo, &hi
		}
	}

	if m := lowerBoundPattern.FindStringSubmatch(rangeText); m != nil {
		if lo, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &lo, nil
		}
	}

	if m := upperBoundPattern.FindStringSubmatch(rangeText); m != nil {
		if hi, err := strconv.ParseFloat(m[1], 64); err == nil {
			return nil, &hi
		}
	}

	return nil, nil
}

// classifyNumeric tries the range patterns in order: interval first, then
// lower bound, then upper bound. A lone "até N" reads as an upper bound;
// "M até N" is caught by the interval pattern before it gets here.
func classifyNumeric(value float64, rangeText string) HealthStatus {
	if m := intervalPattern.FindStringSubmatch(rangeText); m != nil {
		min, errMin := strconv.ParseFloat(m[1], 64)
		max, errMax := strconv.ParseFloat(m[2], 64)

		if errMin == nil && errMax == nil {
			if value >= min && value <= max {
				return StatusSuccess
			}

			margin := (max - min) * intervalMarginFraction
			if value >= min-margin && value <= max+margin {
				return StatusWarning
			}

			return StatusDanger
		}
	}

	if m := lowerBoundPattern.FindStringSubmatch(rangeText); m != nil {
		threshold, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			if value > threshold {
				return StatusSuccess
			}
			if value >= threshold*lowerBoundWarningFactor {
				return StatusWarning
			}

			return StatusDanger
		}
	}

	if m := upperBoundPattern.FindStringSubmatch(rangeText); m != nil {
		threshold, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			if value < threshold {
				return StatusSuccess
			}
			if value <= threshold*upperBoundWarningFactor {
				return StatusWarning
			}

			return StatusDanger
		}
	}

	return StatusNeutral
}

func classifyTextual(value string) HealthStatus {
	text := strings.ToLower(strings.TrimSpace(value))

	// Healthy (negated) phrases are terminal; never fall through to the
	// unhealthy check ("não reagente" contains "reagente").
	for _, phrase := range healthyPhrases {
		if strings.Contains(text, phrase) {
			return StatusSuccess
		}
	}

	for _, phrase := range unhealthyPhrases {
		if strings.Contains(text, phrase) {
			return StatusDanger
		}
	}

	for _, phrase := range inconclusivePhrases {
		if strings.Contains(text, phrase) {
			return StatusInfo
		}
	}

	return StatusNeutral
}
