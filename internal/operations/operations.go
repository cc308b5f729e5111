// Package operations classifies raw machine operation tags into priced
// operation codes.
package operations

import (
	"math"
	"strconv"
	"strings"
)

// Code is the classified category of a single machine instruction. It doubles
// as the price table key for that operation.
type Code string

const (
	CodeStraightCut Code = "SawStraight"
	CodeAngledCut   Code = "SawAngled"
	CodeLap         Code = "Lap"
	CodeBirdsMouth  Code = "BirdsMouth"
	CodeNeig        Code = "Neig"
	CodeHipRidgeCut Code = "HipRidgeCut"
)

// SawTag is the element name of a saw cut operation.
const SawTag = "Saw"

const (
	defaultSawAngle = 90.0
	angleTolerance  = 0.1
)

// ignored lists annotation and macro elements that never carry a price.
var ignored = map[string]struct{}{
	"Description": {},
	"Comment":     {},
	"Cost":        {},
	"Version":     {},
	"Timestamp":   {},
	"Macro":       {},
}

// chargeable are the codes summed into a part's chargeable operation total.
// Straight cuts and hip/ridge cuts are priced but not part of this total.
var chargeable = []Code{CodeAngledCut, CodeLap, CodeBirdsMouth, CodeNeig}

// Attributes exposes an operation element's attributes by name.
type Attributes interface {
	Attr(name string) (string, bool)
}

// AttrMap is a plain map implementation of Attributes.
type AttrMap map[string]string

// Attr implements Attributes.
func (m AttrMap) Attr(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Classify maps a raw operation tag to its operation code. The second return
// value is false when the tag is in the ignore set and must not be tallied.
func Classify(tag string, attrs Attributes) (Code, bool) {
	if IsIgnored(tag) {
		return "", false
	}
	if tag == SawTag {
		angle := floatAttr(attrs, "Angle", defaultSawAngle)
		bevel := floatAttr(attrs, "Bevel", defaultSawAngle)
		if isSquare(angle) && isSquare(bevel) {
			return CodeStraightCut, true
		}
		return CodeAngledCut, true
	}
	return Code(tag), true
}

// IsIgnored reports whether tag is a non-priced annotation element.
func IsIgnored(tag string) bool {
	_, ok := ignored[tag]
	return ok
}

// Chargeable returns the codes counted toward the chargeable operation total.
func Chargeable() []Code {
	out := make([]Code, len(chargeable))
	copy(out, chargeable)
	return out
}

// ChargeableTotal sums the tally counts of the chargeable codes.
func ChargeableTotal(tally map[Code]int) int {
	total := 0
	for _, c := range chargeable {
		total += tally[c]
	}
	return total
}

func isSquare(deg float64) bool {
	return math.Abs(deg-defaultSawAngle) < angleTolerance
}

func floatAttr(attrs Attributes, name string, def float64) float64 {
	if attrs == nil {
		return def
	}
	raw, ok := attrs.Attr(name)
	if !ok {
		return def
	}
	v, ok := ParseFloat(raw)
	if !ok {
		return def
	}
	return v
}

// ParseFloat parses a numeric attribute value, accepting a decimal comma.
func ParseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
