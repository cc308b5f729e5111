package surcharge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStandardCrossSection_SwappedMatch(t *testing.T) {
	refs := []CrossSection{{38, 89}}

	assert.True(t, IsStandardCrossSection(38, 89, refs))
	assert.True(t, IsStandardCrossSection(89, 38, refs))
	assert.True(t, IsStandardCrossSection(38.6, 88.2, refs))
	assert.False(t, IsStandardCrossSection(38, 90, refs))
	assert.False(t, IsStandardCrossSection(0, 0, refs))
	assert.False(t, IsStandardCrossSection(38, 89, nil))
}

func TestIsStandardCrossSection_Symmetric(t *testing.T) {
	pairs := [][2]float64{{38, 89}, {45, 145}, {44.5, 170.4}, {50, 50}, {0, 0}, {100, 22}, {63, 174}}
	for _, p := range pairs {
		assert.Equal(t,
			IsStandardCrossSection(p[0], p[1], DefaultStockSizes),
			IsStandardCrossSection(p[1], p[0], DefaultStockSizes),
			"%v", p)
	}
}

func TestEvaluate_MarkerWinsOverDimension(t *testing.T) {
	e := NewEvaluator(DefaultStockSizes)

	d := e.Evaluate(51, 123, "Spant 4 C24 zie g10-1 tekening")
	assert.True(t, d.Required)
	assert.Equal(t, ExplicitCode("G10-1"), d.Reason)
	assert.True(t, d.Reason.IsExplicit())
}

func TestEvaluate_FirstMarkerInDeclarationOrder(t *testing.T) {
	e := Evaluator{Markers: []string{"SCHAVEN", "G10-2"}, StockSizes: DefaultStockSizes}

	d := e.Evaluate(38, 89, "G10-2 en schaven")
	assert.Equal(t, ExplicitCode("SCHAVEN"), d.Reason)
}

func TestEvaluate_NonStandardDimension(t *testing.T) {
	d := Evaluator{}.Evaluate(50, 150, "Balk C24")
	assert.True(t, d.Required)
	assert.Equal(t, ReasonNonStandard, d.Reason)
	assert.False(t, d.Reason.IsExplicit())
}

func TestEvaluate_StandardNoMarker(t *testing.T) {
	d := Evaluator{}.Evaluate(89, 38, "Regel C16")
	assert.False(t, d.Required)
	assert.Equal(t, ReasonNone, d.Reason)
}

func TestEvaluate_Deterministic(t *testing.T) {
	e := NewEvaluator(DefaultStockSizes)
	first := e.Evaluate(47, 97, "geschaafd")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Evaluate(47, 97, "geschaafd"))
	}
}
