package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Simplici0/houtcalc/internal/operations"
)

// Price table keys that are not operation codes.
const (
	KeySurchargePerMeter = "surcharge-per-meter"
	KeySetupSawing       = "setup-sawing"
	KeySetupPlaning      = "setup-planing"
)

var (
	// ErrNegativePrice is returned for a price table holding a negative price.
	ErrNegativePrice = errors.New("negative price")
	// ErrNonFinitePrice is returned for a NaN or infinite price.
	ErrNonFinitePrice = errors.New("price is not a finite number")
)

// PriceTable maps operation codes and fee keys to unit prices. A table is
// treated as immutable once handed to Calculate; Revision identifies the
// saved version it was loaded from.
type PriceTable struct {
	Revision string             `json:"revision"`
	Prices   map[string]float64 `json:"prices"`
}

// DefaultPrices returns the seed price list.
func DefaultPrices() map[string]float64 {
	return map[string]float64{
		string(operations.CodeStraightCut): 1.50,
		string(operations.CodeAngledCut):   2.50,
		string(operations.CodeLap):         4.00,
		string(operations.CodeBirdsMouth):  3.50,
		string(operations.CodeNeig):        2.00,
		string(operations.CodeHipRidgeCut): 3.00,
		"Drill":                            0.75,
		"Slot":                             2.50,
		"Mark":                             0.20,
		"Mill":                             3.00,
		"Inkjet":                           0.10,
		KeySurchargePerMeter:               1.25,
		KeySetupSawing:                     100.00,
		KeySetupPlaning:                    75.00,
	}
}

// Price returns the unit price for key and whether the table has it.
func (t PriceTable) Price(key string) (float64, bool) {
	v, ok := t.Prices[key]
	return v, ok
}

// Clone returns a deep copy of t.
func (t PriceTable) Clone() PriceTable {
	prices := make(map[string]float64, len(t.Prices))
	for k, v := range t.Prices {
		prices[k] = v
	}
	return PriceTable{Revision: t.Revision, Prices: prices}
}

// Keys returns the table keys in sorted order.
func (t PriceTable) Keys() []string {
	keys := make([]string, 0, len(t.Prices))
	for k := range t.Prices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate rejects negative and non-finite prices.
func (t PriceTable) Validate() error {
	for _, k := range t.Keys() {
		if err := ValidatePrice(t.Prices[k]); err != nil {
			return fmt.Errorf("%s = %v: %w", k, t.Prices[k], err)
		}
	}
	return nil
}

// ValidatePrice checks a single unit price.
func ValidatePrice(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNonFinitePrice
	}
	if v < 0 {
		return ErrNegativePrice
	}
	return nil
}
