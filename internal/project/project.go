// Package project holds the parsed part/project model shared by every input
// path and consumed by pricing.
package project

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Simplici0/houtcalc/internal/operations"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

// PlaceholderName is used when a document carries no project name.
const PlaceholderName = "Onbekend project"

// Part is one timber piece with its geometry and applied operations.
type Part struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Length   float64 `json:"length"`
	Grade    string  `json:"grade"`
	Comment  string  `json:"comment"`

	// Tally counts occurrences per operation code.
	Tally map[operations.Code]int `json:"tally"`
	// Sequence lists the codes in document order.
	Sequence []operations.Code `json:"sequence"`

	Surcharge surcharge.Decision `json:"surcharge"`
}

// ChargeableOperations is the part's "Totaal": angled cuts, laps,
// birdsmouths and neigs, excluding straight and hip/ridge cuts.
func (p Part) ChargeableOperations() int {
	return operations.ChargeableTotal(p.Tally)
}

// LinearMeters is length in meters times quantity.
func (p Part) LinearMeters() float64 {
	return p.Length / 1000 * float64(p.Quantity)
}

// Codes returns the tallied codes in sorted order.
func (p Part) Codes() []operations.Code {
	codes := make([]operations.Code, 0, len(p.Tally))
	for c := range p.Tally {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// SurchargeText is the text scanned for planing markers.
func (p Part) SurchargeText() string {
	return p.Name + " " + p.Grade + " " + p.Comment
}

// Project is a parsed document: a name plus its parts in document order.
type Project struct {
	Name  string `json:"name"`
	Parts []Part `json:"parts"`
}

// HasSurcharge reports whether any part requires planing.
func (p Project) HasSurcharge() bool {
	for _, part := range p.Parts {
		if part.Surcharge.Required {
			return true
		}
	}
	return false
}

// CodeTotals sums count x quantity per code across all parts.
func (p Project) CodeTotals() map[operations.Code]int {
	totals := make(map[operations.Code]int)
	for _, part := range p.Parts {
		for code, n := range part.Tally {
			totals[code] += n * part.Quantity
		}
	}
	return totals
}

var (
	ErrNegativeQuantity = errors.New("negative quantity")
	ErrNegativeCount    = errors.New("negative operation count")
	ErrEmptyCode        = errors.New("empty operation code")
	ErrIgnoredCode      = errors.New("unclassified operation code")
)

// Validate checks the model invariants. Input paths other than the XML
// parser must pass their output through Validate before pricing.
func (p Project) Validate() error {
	for i, part := range p.Parts {
		if part.Quantity < 0 {
			return fmt.Errorf("part %d (%q): %w", i, part.Name, ErrNegativeQuantity)
		}
		for code, n := range part.Tally {
			if code == "" {
				return fmt.Errorf("part %d (%q): %w", i, part.Name, ErrEmptyCode)
			}
			if code == operations.SawTag || operations.IsIgnored(string(code)) {
				return fmt.Errorf("part %d (%q): %w: %s", i, part.Name, ErrIgnoredCode, code)
			}
			if n < 0 {
				return fmt.Errorf("part %d (%q): %w: %s", i, part.Name, ErrNegativeCount, code)
			}
		}
	}
	return nil
}
