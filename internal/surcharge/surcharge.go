// Package surcharge decides whether a part needs planing and why.
package surcharge

import "strings"

// Reason explains a surcharge decision.
type Reason string

const (
	ReasonNone        Reason = "none"
	ReasonNonStandard Reason = "non-standard dimension"
)

const explicitCodePrefix = "explicit code "

// ExplicitCode returns the reason for a matched text marker.
func ExplicitCode(marker string) Reason {
	return Reason(explicitCodePrefix + marker)
}

// IsExplicit reports whether r came from a text marker.
func (r Reason) IsExplicit() bool {
	return strings.HasPrefix(string(r), explicitCodePrefix)
}

// DefaultMarkers is scanned front to back; the first hit wins.
var DefaultMarkers = []string{"G10-1", "G10-2", "G10-3", "GESCHAAFD", "SCHAVEN"}

// Decision is the outcome of Evaluate.
type Decision struct {
	Required bool   `json:"required"`
	Reason   Reason `json:"reason"`
}

// Evaluator holds the marker list and stock sizes used for decisions. The
// zero value uses the defaults.
type Evaluator struct {
	Markers    []string
	StockSizes []CrossSection
}

// NewEvaluator returns an Evaluator over the given stock sizes and the
// default markers.
func NewEvaluator(sizes []CrossSection) Evaluator {
	return Evaluator{Markers: DefaultMarkers, StockSizes: sizes}
}

// Evaluate decides the planing surcharge for a part. A marker found in text
// takes precedence over the dimensional check.
func (e Evaluator) Evaluate(thickness, width float64, text string) Decision {
	markers := e.Markers
	if markers == nil {
		markers = DefaultMarkers
	}
	sizes := e.StockSizes
	if sizes == nil {
		sizes = DefaultStockSizes
	}

	upper := strings.ToUpper(text)
	for _, m := range markers {
		if m == "" {
			continue
		}
		if strings.Contains(upper, strings.ToUpper(m)) {
			return Decision{Required: true, Reason: ExplicitCode(m)}
		}
	}

	if !IsStandardCrossSection(thickness, width, sizes) {
		return Decision{Required: true, Reason: ReasonNonStandard}
	}
	return Decision{Required: false, Reason: ReasonNone}
}
