package surcharge

import "math"

const dimensionTolerance = 1.0

// CrossSection is a rough stock size in millimeters.
type CrossSection struct {
	Thickness float64 `json:"thickness"`
	Width     float64 `json:"width"`
}

// DefaultStockSizes are the rough sizes that need no extra milling.
var DefaultStockSizes = []CrossSection{
	{22, 100},
	{38, 89},
	{38, 140},
	{38, 184},
	{38, 235},
	{45, 70},
	{45, 95},
	{45, 120},
	{45, 145},
	{45, 170},
	{45, 195},
	{45, 220},
	{63, 175},
	{75, 200},
}

// IsStandardCrossSection reports whether (thickness, width) matches one of
// refs within 1 mm on each side, in either orientation.
func IsStandardCrossSection(thickness, width float64, refs []CrossSection) bool {
	for _, ref := range refs {
		if near(thickness, ref.Thickness) && near(width, ref.Width) {
			return true
		}
		if near(thickness, ref.Width) && near(width, ref.Thickness) {
			return true
		}
	}
	return false
}

func near(a, b float64) bool {
	return math.Abs(a-b) < dimensionTolerance
}
